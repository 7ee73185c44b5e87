package showresults

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
	"helpdesk-bot/internal/recognizer"
	"helpdesk-bot/internal/search"
)

type launchRecognizer struct{}

func (launchRecognizer) Recognize(ctx context.Context, utterance string) (*recognizer.IntentMatch, error) {
	return &recognizer.IntentMatch{Intent: "Launch", Score: 1}, nil
}

// invokeRenderer drives the renderer through a one-step launcher dialog so
// the replace payload travels the same path production callers use.
func invokeRenderer(t *testing.T, args bot.Args) []bot.Activity {
	t.Helper()

	registry := bot.NewRegistry()
	registry.MustRegister(&bot.Dialog{
		Name:    "Launcher",
		Trigger: "Launch",
		Steps: []bot.Step{func(ctx context.Context, s *bot.Session) (bot.Action, error) {
			return bot.Replace(Name, args), nil
		}},
	})
	registry.MustRegister(New())

	engine := bot.NewEngine(registry, bot.NewMemoryStore(), launchRecognizer{}, logger.NewTestLogger(t))
	engine.ScoreThreshold = 0.5

	replies, err := engine.HandleMessage(context.Background(), "conv-1", "launch")
	require.NoError(t, err)
	return replies
}

func TestShowKBResults_RendersCarousel(t *testing.T) {
	result := &search.Result{Value: []models.Article{
		{Title: "Install a printer", Category: "hardware", Text: "Plug it in and pray.", Score: 2.4},
		{Title: "Reset your password", Category: "security", Text: "Use the self-service portal.", Score: 1.1},
	}}

	replies := invokeRenderer(t, bot.Args{"result": result, "originalText": "search about printers"})

	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "'search about printers'")
	assert.Contains(t, replies[0].Text, "More details")

	carousel := replies[1]
	assert.Equal(t, bot.LayoutCarousel, carousel.AttachmentLayout)
	require.Len(t, carousel.Attachments, 2)
	assert.Equal(t, bot.ContentTypeThumbnailCard, carousel.Attachments[0].ContentType)
}

func TestShowKBResults_EmptyResult(t *testing.T) {
	replies := invokeRenderer(t, bot.Args{
		"result":       &search.Result{},
		"originalText": "nonexistent topic",
	})

	require.Len(t, replies, 1)
	assert.Equal(t, "Sorry, I could not find any results in the knowledge base for _'nonexistent topic'_", replies[0].Text)
}

func TestShowKBResults_DecodedJSONPayload(t *testing.T) {
	// A payload that round-tripped through JSON arrives as generic maps.
	raw := map[string]interface{}{
		"value": []interface{}{
			map[string]interface{}{
				"title":         "Install a printer",
				"category":      "hardware",
				"text":          "Plug it in.",
				"@search.score": 2.4,
			},
		},
	}

	replies := invokeRenderer(t, bot.Args{"result": raw, "originalText": "printers"})

	require.Len(t, replies, 2)
	require.Len(t, replies[1].Attachments, 1)
}

func TestResultFromArgs(t *testing.T) {
	typed := &search.Result{Value: []models.Article{{Title: "A"}}}

	got, err := resultFromArgs(typed)
	require.NoError(t, err)
	assert.Same(t, typed, got)

	got, err = resultFromArgs(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = resultFromArgs(func() {})
	assert.Error(t, err)
}
