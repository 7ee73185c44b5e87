package help

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/recognizer"
)

type helpRecognizer struct{}

func (helpRecognizer) Recognize(ctx context.Context, utterance string) (*recognizer.IntentMatch, error) {
	return &recognizer.IntentMatch{Intent: "Help", Score: 0.95}, nil
}

func TestHelp_AnswersAndEnds(t *testing.T) {
	registry := bot.NewRegistry()
	registry.MustRegister(New())
	engine := bot.NewEngine(registry, bot.NewMemoryStore(), helpRecognizer{}, logger.NewTestLogger(t))
	engine.ScoreThreshold = 0.5
	ctx := context.Background()

	replies, err := engine.HandleMessage(ctx, "conv-1", "help")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "help desk bot")
	assert.Contains(t, replies[0].Text, "search about")
}
