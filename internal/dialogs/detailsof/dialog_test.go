package detailsof

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
	"helpdesk-bot/internal/search"
)

type stubSearch struct {
	result    *search.Result
	err       error
	lastField string
	lastValue string
}

func (s *stubSearch) Search(ctx context.Context, text string) (*search.Result, error) {
	return s.result, s.err
}

func (s *stubSearch) Facets(ctx context.Context, field string) (*search.Result, error) {
	return s.result, s.err
}

func (s *stubSearch) Filter(ctx context.Context, field, value string) (*search.Result, error) {
	s.lastField, s.lastValue = field, value
	return s.result, s.err
}

func newDetailsEngine(t *testing.T, client search.Client) *bot.Engine {
	registry := bot.NewRegistry()
	registry.MustRegister(New(client, logger.NewTestLogger(t)))
	return bot.NewEngine(registry, bot.NewMemoryStore(), nil, logger.NewTestLogger(t))
}

func TestDetailsOf_ReturnsFullText(t *testing.T) {
	client := &stubSearch{result: &search.Result{Value: []models.Article{
		{Title: "Install a printer", Category: "hardware", Text: "Full install walkthrough."},
	}}}
	engine := newDetailsEngine(t, client)

	replies, err := engine.HandleMessage(context.Background(), "conv-1", "show me the article Install a printer")
	require.NoError(t, err)

	assert.Equal(t, "title", client.lastField)
	assert.Equal(t, "Install a printer", client.lastValue)
	require.Len(t, replies, 1)
	assert.Equal(t, "Full install walkthrough.", replies[0].Text)
}

func TestDetailsOf_NoMatch(t *testing.T) {
	client := &stubSearch{result: &search.Result{}}
	engine := newDetailsEngine(t, client)

	replies, err := engine.HandleMessage(context.Background(), "conv-1", "show me the article Nonexistent")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, notFoundMessage, replies[0].Text)
}

func TestDetailsOf_SearchErrorApologizes(t *testing.T) {
	client := &stubSearch{err: errors.New("timeout")}
	engine := newDetailsEngine(t, client)

	replies, err := engine.HandleMessage(context.Background(), "conv-1", "show me the article Anything")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, errorMessage, replies[0].Text)
}
