// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Bot           BotConfig          `mapstructure:"bot"`
	Recognizer    RecognizerConfig   `mapstructure:"recognizer"`
	Search        SearchConfig       `mapstructure:"search"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
}

// BotConfig holds dialog-engine settings.
type BotConfig struct {
	// StateTTL controls how long an idle conversation's dialog stack is
	// retained in the store, in seconds. Zero means no expiry.
	StateTTL int `mapstructure:"state_ttl"`
	// IntentScoreThreshold is the minimum recognizer score needed for an
	// intent to trigger a dialog.
	IntentScoreThreshold float64 `mapstructure:"intent_score_threshold"`
	// TicketSubmissionURL is the base URL of the tickets API the
	// SubmitTicket flow posts to.
	TicketSubmissionURL string `mapstructure:"ticket_submission_url"`
}

func (b BotConfig) StateTTLDuration() time.Duration {
	return time.Duration(b.StateTTL) * time.Second
}

type RecognizerConfig struct {
	ModelURL string `mapstructure:"model_url"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

func (r RecognizerConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Millisecond
}

// SearchConfig selects and configures the knowledge-base search backend.
type SearchConfig struct {
	// Backend is "azure" or "elasticsearch".
	Backend string            `mapstructure:"backend"`
	Azure   AzureSearchConfig `mapstructure:"azure"`
	Index   string            `mapstructure:"index"`
	Timeout int               `mapstructure:"timeout"` // milliseconds
}

func (s SearchConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

type AzureSearchConfig struct {
	ServiceName string `mapstructure:"service_name"`
	IndexName   string `mapstructure:"index_name"`
	APIKey      string `mapstructure:"api_key"`
}

// GetBaseURL returns the index query endpoint for the configured service.
func (a AzureSearchConfig) GetBaseURL() string {
	return fmt.Sprintf("https://%s.search.windows.net/indexes/%s/docs", a.ServiceName, a.IndexName)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single URL shorthand
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig holds settings for ticket-created notifications.
type NotificationConfig struct {
	AWSRegion string `mapstructure:"aws_region"`

	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`

	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
		SenderID    string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
