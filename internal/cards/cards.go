// Package cards renders the rich reply attachments: the ticket receipt
// adaptive card and the knowledge base article thumbnails.
package cards

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/models"
)

//go:embed ticket.json
var ticketTemplate string

const articleImageURL = "https://raw.githubusercontent.com/GeekTrainer/help-desk-bot-lab/master/assets/head-smiling-medium.png"

// snippetLength caps the article preview shown on a thumbnail card.
const snippetLength = 50

// thumbnailCard is the wire shape of a thumbnail attachment's content.
type thumbnailCard struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []cardImage  `json:"images,omitempty"`
	Buttons  []cardAction `json:"buttons,omitempty"`
}

type cardImage struct {
	URL string `json:"url"`
}

type cardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// TicketCard renders the ticket receipt from the embedded adaptive card
// template. Field values are placed by placeholder substitution, so the
// rendering is idempotent given the same ticket.
func TicketCard(ticketID int64, ticket models.Ticket) (bot.Attachment, error) {
	replacer := strings.NewReplacer(
		"{ticketId}", strconv.FormatInt(ticketID, 10),
		"{severity}", ticket.Severity,
		"{category}", ticket.Category,
		"{description}", ticket.Description,
	)

	var attachment struct {
		ContentType string          `json:"contentType"`
		Content     json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal([]byte(replacer.Replace(ticketTemplate)), &attachment); err != nil {
		return bot.Attachment{}, fmt.Errorf("render ticket card: %w", err)
	}

	return bot.Attachment{
		ContentType: attachment.ContentType,
		Content:     attachment.Content,
	}, nil
}

// ArticleCard renders one knowledge base article as a thumbnail card with a
// More details button that posts back the detail-lookup command.
func ArticleCard(article models.Article) bot.Attachment {
	return bot.Attachment{
		ContentType: bot.ContentTypeThumbnailCard,
		Content: thumbnailCard{
			Title:    article.Title,
			Subtitle: fmt.Sprintf("Category: %s | Search Score: %.2f", article.Category, article.Score),
			Text:     snippet(article.Text),
			Images:   []cardImage{{URL: articleImageURL}},
			Buttons: []cardAction{{
				Type:  "postBack",
				Title: "More details",
				Value: "show me the article " + article.Title,
			}},
		},
	}
}

// ArticleCarousel renders a result page as one thumbnail card per article.
func ArticleCarousel(articles []models.Article) []bot.Attachment {
	attachments := make([]bot.Attachment, 0, len(articles))
	for _, article := range articles {
		attachments = append(attachments, ArticleCard(article))
	}
	return attachments
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "..."
}
