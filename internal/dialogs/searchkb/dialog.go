// Package searchkb handles the free-text knowledge base search triggered by
// the "search about ..." command.
package searchkb

import (
	"context"
	"regexp"
	"strings"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/dialogs/showresults"
	"helpdesk-bot/internal/search"
)

const Name = "SearchKB"

const errorMessage = "Ooops! Something went wrong while searching the knowledge base. Please try again later."

// Pattern claims the whole utterance; the capture group is the query text.
var Pattern = regexp.MustCompile(`(?i)^search about (.*)`)

type dialog struct {
	search search.Client
	logger logger.Logger
}

// New builds the search dialog. It runs the query and hands the result set
// to the results renderer in the same turn.
func New(client search.Client, log logger.Logger) *bot.Dialog {
	d := &dialog{
		search: client,
		logger: log.WithFields(map[string]interface{}{"dialog": Name}),
	}
	return &bot.Dialog{
		Name:    Name,
		Pattern: Pattern,
		Steps:   []bot.Step{d.stepSearch},
	}
}

func (d *dialog) stepSearch(ctx context.Context, s *bot.Session) (bot.Action, error) {
	query := s.Utterance
	if m := Pattern.FindStringSubmatch(s.Utterance); m != nil {
		query = strings.TrimSpace(m[1])
	}

	result, err := d.search.Search(ctx, query)
	if err != nil {
		d.logger.WithError(err).Error("knowledge base search failed", map[string]interface{}{
			"query": query,
		})
		return bot.EndWithText(errorMessage), nil
	}

	return bot.Replace(showresults.Name, bot.Args{
		"result":       result,
		"originalText": s.Utterance,
	}), nil
}
