// Package help answers the Help intent with a summary of what the bot can
// do.
package help

import (
	"context"

	"helpdesk-bot/internal/bot"
)

const Name = "Help"

const helpMessage = "I'm the help desk bot and I can help you with your problems.\n" +
	"You can tell me things like _I need to reset my password_ or _I can't print_.\n" +
	"You can also explore the knowledge base by category, or type things like " +
	"_search about printers_ to look for articles."

// New builds the Help dialog. A single step, no state.
func New() *bot.Dialog {
	return &bot.Dialog{
		Name:    Name,
		Trigger: "Help",
		Steps: []bot.Step{
			func(ctx context.Context, s *bot.Session) (bot.Action, error) {
				return bot.EndWithText(helpMessage), nil
			},
		},
	}
}
