// Package detailsof serves the full text of one article, triggered by the
// "show me the article ..." command the result cards post back.
package detailsof

import (
	"context"
	"regexp"
	"strings"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/search"
)

const Name = "DetailsOf"

const (
	notFoundMessage = "Sorry, I could not find that article."
	errorMessage    = "Ooops! Something went wrong while searching the knowledge base. Please try again later."
)

var Pattern = regexp.MustCompile(`(?i)^show me the article (.*)`)

type dialog struct {
	search search.Client
	logger logger.Logger
}

// New builds the article-detail dialog.
func New(client search.Client, log logger.Logger) *bot.Dialog {
	d := &dialog{
		search: client,
		logger: log.WithFields(map[string]interface{}{"dialog": Name}),
	}
	return &bot.Dialog{
		Name:    Name,
		Pattern: Pattern,
		Steps:   []bot.Step{d.stepLookup},
	}
}

func (d *dialog) stepLookup(ctx context.Context, s *bot.Session) (bot.Action, error) {
	title := s.Utterance
	if m := Pattern.FindStringSubmatch(s.Utterance); m != nil {
		title = strings.TrimSpace(m[1])
	}

	result, err := d.search.Filter(ctx, "title", title)
	if err != nil {
		d.logger.WithError(err).Error("article lookup failed", map[string]interface{}{
			"title": title,
		})
		return bot.EndWithText(errorMessage), nil
	}

	if len(result.Value) == 0 {
		return bot.EndWithText(notFoundMessage), nil
	}
	return bot.EndWithText(result.Value[0].Text), nil
}
