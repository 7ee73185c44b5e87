// Package showresults renders a knowledge-base result page. It is a
// terminal dialog: the search and explore flows replace themselves into it
// with the result set and the text that produced it, and it ends in the
// same turn.
package showresults

import (
	"context"
	"encoding/json"
	"fmt"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/cards"
	"helpdesk-bot/internal/search"
)

const Name = "ShowKBResults"

const (
	introMessage = "These are some articles I've found in the knowledge base for '%s', click **More details** to read the full article:"
	emptyMessage = "Sorry, I could not find any results in the knowledge base for _'%s'_"
)

// New builds the results-rendering dialog.
func New() *bot.Dialog {
	return &bot.Dialog{
		Name: Name,
		Steps: []bot.Step{
			func(ctx context.Context, s *bot.Session) (bot.Action, error) {
				result, err := resultFromArgs(s.Args["result"])
				if err != nil {
					return nil, err
				}
				originalText, _ := s.Args["originalText"].(string)

				if result == nil || len(result.Value) == 0 {
					return bot.EndWithText(fmt.Sprintf(emptyMessage, originalText)), nil
				}

				s.SendText(fmt.Sprintf(introMessage, originalText))
				return bot.End(bot.NewCarousel(cards.ArticleCarousel(result.Value))), nil
			},
		},
	}
}

// resultFromArgs recovers the typed result set from the replace payload.
// In-process callers pass *search.Result directly; anything else is assumed
// to be a decoded JSON shape and round-trips through the codec.
func resultFromArgs(raw interface{}) (*search.Result, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *search.Result:
		return v, nil
	case search.Result:
		return &v, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrResponseMalformed, err)
	}
	var result search.Result
	if err := json.Unmarshal(encoded, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrResponseMalformed, err)
	}
	return &result, nil
}
