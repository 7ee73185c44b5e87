package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"helpdesk-bot/internal/common/config"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
)

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

const notifyTimeout = 10 * time.Second

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier pushes a heads-up to the support team whenever a ticket is
// stored. It is best-effort: failures are logged and never bubble back into
// the ticket transaction.
type Notifier struct {
	cfg       config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewNotifier(cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Notifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "ticket_notifier"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewNotifierWithClients wires explicit service clients. Used in tests.
func NewNotifierWithClients(cfg config.NotificationConfig, log logger.Logger, sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "ticket_notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// TicketCreated fans out over the enabled channels. Email goes out for
// every ticket; SMS only pages for high severity.
func (n *Notifier) TicketCreated(ticketID int64, ticket models.Ticket) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	subject := fmt.Sprintf("New help desk ticket #%d (%s)", ticketID, ticket.Severity)
	body := fmt.Sprintf("Ticket #%d\nSeverity: %s\nCategory: %s\n\n%s",
		ticketID, ticket.Severity, ticket.Category, ticket.Description)

	if n.cfg.Email.Enabled && n.cfg.Email.ToEmail != "" {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.logger.Error("ticket email notification failed", map[string]interface{}{
				"error":    fmt.Errorf("%w: %v", ErrNotificationSendFailed, err).Error(),
				"ticketId": ticketID,
			})
		}
	}

	if n.cfg.SMS.Enabled && n.cfg.SMS.PhoneNumber != "" && ticket.Severity == models.SeverityHigh {
		if err := n.sendSMS(ctx, subject); err != nil {
			n.logger.Error("ticket SMS notification failed", map[string]interface{}{
				"error":    fmt.Errorf("%w: %v", ErrNotificationSendFailed, err).Error(),
				"ticketId": ticketID,
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.PhoneNumber),
		Message:     aws.String(message),
	})
	return err
}
