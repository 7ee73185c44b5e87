package cards

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/models"
)

func TestTicketCard_SubstitutesFields(t *testing.T) {
	ticket := models.Ticket{
		Category:    "hardware",
		Severity:    "high",
		Description: "my laptop won't boot",
	}

	attachment, err := TicketCard(42, ticket)
	require.NoError(t, err)
	assert.Equal(t, bot.ContentTypeAdaptiveCard, attachment.ContentType)

	rendered, err := json.Marshal(attachment.Content)
	require.NoError(t, err)
	body := string(rendered)

	assert.Contains(t, body, "Ticket #42")
	assert.Contains(t, body, "high")
	assert.Contains(t, body, "hardware")
	assert.Contains(t, body, "my laptop won't boot")
	assert.NotContains(t, body, "{ticketId}")
	assert.NotContains(t, body, "{severity}")
	assert.NotContains(t, body, "{category}")
	assert.NotContains(t, body, "{description}")
}

func TestTicketCard_Idempotent(t *testing.T) {
	ticket := models.Ticket{Category: "software", Severity: "low", Description: "excel crashes"}

	first, err := TicketCard(7, ticket)
	require.NoError(t, err)
	second, err := TicketCard(7, ticket)
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestArticleCard(t *testing.T) {
	article := models.Article{
		Title:    "Install a printer",
		Category: "hardware",
		Text:     strings.Repeat("x", 80),
		Score:    2.47,
	}

	attachment := ArticleCard(article)
	assert.Equal(t, bot.ContentTypeThumbnailCard, attachment.ContentType)

	card, ok := attachment.Content.(thumbnailCard)
	require.True(t, ok)
	assert.Equal(t, "Install a printer", card.Title)
	assert.Equal(t, "Category: hardware | Search Score: 2.47", card.Subtitle)
	assert.Equal(t, strings.Repeat("x", 50)+"...", card.Text)

	require.Len(t, card.Buttons, 1)
	assert.Equal(t, "postBack", card.Buttons[0].Type)
	assert.Equal(t, "More details", card.Buttons[0].Title)
	assert.Equal(t, "show me the article Install a printer", card.Buttons[0].Value)
}

func TestArticleCard_ShortTextNotTruncated(t *testing.T) {
	attachment := ArticleCard(models.Article{Title: "Short", Text: "brief"})
	card := attachment.Content.(thumbnailCard)
	assert.Equal(t, "brief", card.Text)
}

func TestArticleCarousel(t *testing.T) {
	articles := []models.Article{{Title: "A"}, {Title: "B"}, {Title: "C"}}
	attachments := ArticleCarousel(articles)
	require.Len(t, attachments, 3)
	assert.Equal(t, "A", attachments[0].Content.(thumbnailCard).Title)
	assert.Equal(t, "C", attachments[2].Content.(thumbnailCard).Title)
}
