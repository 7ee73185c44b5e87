// cmd/helpdesk-bot/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/config"
	"helpdesk-bot/internal/common/database"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/common/observability"
	"helpdesk-bot/internal/dialogs/detailsof"
	"helpdesk-bot/internal/dialogs/explorekb"
	"helpdesk-bot/internal/dialogs/help"
	"helpdesk-bot/internal/dialogs/searchkb"
	"helpdesk-bot/internal/dialogs/showresults"
	"helpdesk-bot/internal/dialogs/submitticket"
	"helpdesk-bot/internal/recognizer"
	"helpdesk-bot/internal/search"
	"helpdesk-bot/internal/tickets"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting help desk bot...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("helpdesk-bot")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init knowledge base search backend ---
	var searchClient search.Client
	switch cfg.Search.Backend {
	case "azure":
		searchClient = search.NewAzureClient(cfg.Search.Azure, cfg.Search.TimeoutDuration(), log)
		zapLog.Info("Using Azure Search knowledge base backend")
	default:
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		searchClient = search.NewElasticClient(esClient.Client, cfg.Search.Index, cfg.Search.TimeoutDuration(), log)
		zapLog.Info("Using Elasticsearch knowledge base backend")
	}

	// --- Init intent recognizer ---
	var rec recognizer.Recognizer
	if cfg.Recognizer.ModelURL != "" {
		rec = recognizer.NewLUISClient(cfg.Recognizer.ModelURL, cfg.Recognizer.TimeoutDuration(), log)
		zapLog.Info("Intent recognizer configured")
	} else {
		zapLog.Warn("No recognizer model URL configured; only pattern-triggered dialogs will match")
	}

	// --- Init tickets API ---
	var notifier *tickets.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifier, err = tickets.NewNotifier(cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("ticket notifier failed", zap.Error(err))
		}
	}

	ticketsAPI, err := tickets.NewAPI(pg.GetDB(), notifier, log)
	if err != nil {
		zapLog.Fatal("tickets API failed", zap.Error(err))
	}

	submitter := tickets.NewClient(cfg.Bot.TicketSubmissionURL, 10*time.Second)

	// --- Register dialogs ---
	registry := bot.NewRegistry()
	registry.MustRegister(help.New())
	registry.MustRegister(submitticket.New(submitter, log))
	registry.MustRegister(searchkb.New(searchClient, log))
	registry.MustRegister(explorekb.New(searchClient, log))
	registry.MustRegister(detailsof.New(searchClient, log))
	registry.MustRegister(showresults.New())

	store := bot.NewRedisStore(redisClient.GetClient(), cfg.Bot.StateTTLDuration())

	engine := bot.NewEngine(registry, store, rec, log)
	engine.ScoreThreshold = cfg.Bot.IntentScoreThreshold

	zapLog.Info("All dialogs registered successfully")

	// --- HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages", messagesHandler(engine, obs, log))
	ticketsAPI.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Help desk bot stopped gracefully")
}

type messageRequest struct {
	ConversationID string `json:"conversationId"`
	Text           string `json:"text"`
}

type messageResponse struct {
	ConversationID string         `json:"conversationId"`
	Activities     []bot.Activity `json:"activities"`
}

// messagesHandler is the channel endpoint: one inbound utterance per call,
// the turn's replies in the response. A missing conversation id starts a
// fresh conversation.
func messagesHandler(engine *bot.Engine, obs *observability.Observability, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.ConversationID == "" {
			req.ConversationID = uuid.New().String()
		}

		start := time.Now()
		activities, err := engine.HandleMessage(r.Context(), req.ConversationID, req.Text)
		obs.RecordTurnDuration(r.Context(), time.Since(start), outcomeLabel(err))
		obs.RecordTurnProcessed(r.Context(), outcomeLabel(err))

		if err != nil {
			log.WithError(err).Error("turn processing failed", map[string]interface{}{
				"conversationId": req.ConversationID,
			})
			http.Error(w, "turn processing failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messageResponse{
			ConversationID: req.ConversationID,
			Activities:     activities,
		})
	}
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
