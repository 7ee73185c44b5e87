// Package submitticket implements the ticket creation waterfall: capture
// the problem description verbatim, fill severity and category (entity
// pre-fill or prompt), confirm, and submit.
package submitticket

import (
	"context"
	"fmt"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/cards"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
	"helpdesk-bot/internal/recognizer"
	"helpdesk-bot/internal/tickets"
)

const Name = "SubmitTicket"

const (
	severityQuestion = "Which is the severity of this problem?"
	categoryQuestion = "Which would be the category for this ticket (software, hardware, networking, security or other)?"
	confirmQuestion  = "Great! I'm going to create a \"%s\" severity ticket in the \"%s\" category. The description I will use is \"%s\". Can you please confirm that this information is correct?"
	savedMessage     = "Awesome! Your ticket has been created."
	errorMessage     = "Ooops! Something went wrong while I was saving your ticket. Please try again later."
	declinedMessage  = "Ok. The ticket was not created. You can start again if you want."
)

type dialog struct {
	submitter tickets.Submitter
	logger    logger.Logger
}

// New builds the SubmitTicket dialog. Exclusive: once the waterfall starts,
// replies feed its prompts and never re-enter intent routing.
func New(submitter tickets.Submitter, log logger.Logger) *bot.Dialog {
	d := &dialog{
		submitter: submitter,
		logger:    log.WithFields(map[string]interface{}{"dialog": Name}),
	}
	return &bot.Dialog{
		Name:      Name,
		Trigger:   "SubmitTicket",
		Exclusive: true,
		Steps: []bot.Step{
			d.stepDescription,
			d.stepSeverity,
			d.stepCategory,
			d.stepSubmit,
		},
	}
}

// stepDescription records the invoking utterance verbatim as the problem
// description and pre-fills any slot the recognizer already resolved. Only
// the severity still missing after pre-fill triggers its prompt here; the
// category prompt waits for the next step.
func (d *dialog) stepDescription(ctx context.Context, s *bot.Session) (bot.Action, error) {
	s.Data["description"] = s.Utterance

	if entity := recognizer.FindEntity(s.Match, "category"); entity != nil && len(entity.ResolvedValues) > 0 {
		s.SetIfEmpty("category", entity.ResolvedValues[0])
	}

	if action := s.EnsureField("severity", recognizer.FindEntity(s.Match, "severity"),
		bot.NewChoicePrompt(severityQuestion, models.SeverityChoices())); action != nil {
		return action, nil
	}
	return bot.Advance(), nil
}

// stepSeverity lands the severity reply if one was prompted, then moves on
// to the category.
func (d *dialog) stepSeverity(ctx context.Context, s *bot.Session) (bot.Action, error) {
	s.FillFromResume("severity")

	if s.GetString("category") == "" {
		return bot.Prompt(bot.NewTextPrompt(categoryQuestion)), nil
	}
	return bot.Advance(), nil
}

// stepCategory lands the category reply and asks for confirmation of the
// assembled record.
func (d *dialog) stepCategory(ctx context.Context, s *bot.Session) (bot.Action, error) {
	s.FillFromResume("category")

	message := fmt.Sprintf(confirmQuestion,
		s.GetString("severity"), s.GetString("category"), s.GetString("description"))
	return bot.Prompt(bot.NewConfirmPrompt(message)), nil
}

// stepSubmit submits on confirmation. A declined confirmation, a rejected
// submission, or a transport failure all end the dialog with their fixed
// message; a decline never submits.
func (d *dialog) stepSubmit(ctx context.Context, s *bot.Session) (bot.Action, error) {
	if s.Resume == nil || !s.Resume.Confirmed {
		return bot.EndWithText(declinedMessage), nil
	}

	ticket := models.Ticket{
		Category:    s.GetString("category"),
		Severity:    s.GetString("severity"),
		Description: s.GetString("description"),
	}

	id, err := d.submitter.Submit(ctx, ticket)
	if err != nil {
		d.logger.WithError(err).Error("ticket submission failed", map[string]interface{}{
			"conversationId": s.ConversationID,
		})
		return bot.EndWithText(errorMessage), nil
	}

	card, err := cards.TicketCard(id, ticket)
	if err != nil {
		d.logger.WithError(err).Error("ticket card rendering failed", map[string]interface{}{
			"ticketId": id,
		})
		return bot.EndWithText(savedMessage), nil
	}

	s.SendText(savedMessage)
	return bot.End(bot.NewCardMessage(card)), nil
}
