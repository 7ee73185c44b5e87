package tickets

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/common/config"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
)

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	return &ses.SendEmailOutput{}, m.err
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{}, m.err
}

func notifyConfig(email, sms bool) config.NotificationConfig {
	cfg := config.NotificationConfig{AWSRegion: "us-east-1"}
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "bot@example.com"
	cfg.Email.ToEmail = "support@example.com"
	cfg.SMS.Enabled = sms
	cfg.SMS.PhoneNumber = "+15555550100"
	return cfg
}

func TestNotifier_EmailForEveryTicket(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewNotifierWithClients(notifyConfig(true, true), logger.NewTestLogger(t), sesMock, snsMock)

	n.TicketCreated(42, models.Ticket{Category: "software", Severity: "normal", Description: "excel crashes"})

	require.Len(t, sesMock.inputs, 1)
	input := sesMock.inputs[0]
	assert.Equal(t, "bot@example.com", *input.Source)
	assert.Equal(t, []string{"support@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, *input.Message.Subject.Data, "#42")
	assert.Contains(t, *input.Message.Body.Text.Data, "excel crashes")

	// Normal severity does not page.
	assert.Empty(t, snsMock.inputs)
}

func TestNotifier_HighSeverityPagesSMS(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewNotifierWithClients(notifyConfig(true, true), logger.NewTestLogger(t), sesMock, snsMock)

	n.TicketCreated(7, models.Ticket{Category: "networking", Severity: models.SeverityHigh, Description: "core switch down"})

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+15555550100", *snsMock.inputs[0].PhoneNumber)
	assert.Contains(t, *snsMock.inputs[0].Message, "#7")
}

func TestNotifier_DisabledChannelsStayQuiet(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewNotifierWithClients(notifyConfig(false, false), logger.NewTestLogger(t), sesMock, snsMock)

	n.TicketCreated(1, models.Ticket{Severity: models.SeverityHigh})

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestNotifier_SendFailureDoesNotPanic(t *testing.T) {
	sesMock := &mockSES{err: assert.AnError}
	snsMock := &mockSNS{err: assert.AnError}
	n := NewNotifierWithClients(notifyConfig(true, true), logger.NewTestLogger(t), sesMock, snsMock)

	// Best-effort: failures are logged, never returned.
	n.TicketCreated(9, models.Ticket{Severity: models.SeverityHigh, Description: "x"})
}
