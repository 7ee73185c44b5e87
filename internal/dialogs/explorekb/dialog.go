// Package explorekb lets the user browse the knowledge base by category. A
// category entity on the invoking utterance skips the category prompt.
package explorekb

import (
	"context"
	"fmt"
	"regexp"

	"helpdesk-bot/internal/bot"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/dialogs/showresults"
	"helpdesk-bot/internal/recognizer"
	"helpdesk-bot/internal/search"
)

const Name = "ExploreKnowledgeBase"

const (
	categoryPrompt = "Let's see if I can find something in the knowledge base for you. Which category is your question about?"
	errorMessage   = "Ooops! Something went wrong while searching the knowledge base. Please try again later."
	emptyMessage   = "Sorry, there are no knowledge base categories yet."
)

// Prompt choices carry an article count suffix, e.g. "software (7)"; the
// suffix is stripped before filtering.
var countSuffix = regexp.MustCompile(`\s\([^)]*\)$`)

type dialog struct {
	search search.Client
	logger logger.Logger
}

// New builds the explore dialog. Exclusive: while it awaits the category
// choice the reply goes to its prompt, never back through intent routing.
func New(client search.Client, log logger.Logger) *bot.Dialog {
	d := &dialog{
		search: client,
		logger: log.WithFields(map[string]interface{}{"dialog": Name}),
	}
	return &bot.Dialog{
		Name:      Name,
		Trigger:   "ExploreKnowledgeBase",
		Exclusive: true,
		Steps:     []bot.Step{d.stepCategory, d.stepFilter},
	}
}

// stepCategory resolves which category to browse: the extracted entity if
// one came with the utterance, otherwise a choice prompt built from the
// live category facets.
func (d *dialog) stepCategory(ctx context.Context, s *bot.Session) (bot.Action, error) {
	if entity := recognizer.FindEntity(s.Match, "category"); entity != nil {
		s.SetIfEmpty("category", recognizer.FirstResolvedValue(entity))
		if s.GetString("category") != "" {
			return bot.Advance(), nil
		}
	}

	result, err := d.search.Facets(ctx, "category")
	if err != nil {
		d.logger.WithError(err).Error("category facet query failed", nil)
		return bot.EndWithText(errorMessage), nil
	}

	facets := result.Facets["category"]
	if len(facets) == 0 {
		return bot.EndWithText(emptyMessage), nil
	}

	choices := make([]string, 0, len(facets))
	for _, facet := range facets {
		choices = append(choices, fmt.Sprintf("%s (%d)", facet.Value, facet.Count))
	}
	return bot.Prompt(bot.NewChoicePrompt(categoryPrompt, choices)), nil
}

// stepFilter runs the category filter and hands off to the results
// renderer.
func (d *dialog) stepFilter(ctx context.Context, s *bot.Session) (bot.Action, error) {
	category := s.GetString("category")
	if category == "" && s.Resume != nil {
		category = countSuffix.ReplaceAllString(s.Resume.Choice, "")
		s.Data["category"] = category
	}

	result, err := d.search.Filter(ctx, "category", category)
	if err != nil {
		d.logger.WithError(err).Error("category filter failed", map[string]interface{}{
			"category": category,
		})
		return bot.EndWithText(errorMessage), nil
	}

	return bot.Replace(showresults.Name, bot.Args{
		"result":       result,
		"originalText": category,
	}), nil
}
