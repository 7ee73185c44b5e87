// Package bot implements the dialog orchestration core: intent-to-dialog
// routing, a per-conversation dialog stack persisted across suspending
// turns, slot filling with entity pre-fill, and replace semantics for
// chaining flows without an extra user turn.
package bot

import (
	"context"
	"regexp"

	"helpdesk-bot/internal/recognizer"
)

// Args is the explicit payload handed to an invoked or replaced dialog. It
// is a per-turn value: a dialog that needs any of it across a suspension
// must copy it into its instance data.
type Args map[string]interface{}

// Action is what a step returns to drive the state machine.
type Action interface {
	isAction()
}

// PromptAction suspends the dialog awaiting a typed reply; the following
// step runs when the reply arrives.
type PromptAction struct {
	Request PromptRequest
}

// AdvanceAction runs the next step immediately, without suspending.
type AdvanceAction struct{}

// ReplaceAction pops the active instance, discarding its data, and pushes
// the named dialog in the same turn with an explicit argument payload.
type ReplaceAction struct {
	Dialog string
	Args   Args
}

// EndAction pops the active instance, optionally delivering final messages.
type EndAction struct {
	Activities []Activity
}

func (PromptAction) isAction()  {}
func (AdvanceAction) isAction() {}
func (ReplaceAction) isAction() {}
func (EndAction) isAction()     {}

// Prompt suspends on the given request.
func Prompt(req PromptRequest) Action { return PromptAction{Request: req} }

// Advance continues to the next step synchronously.
func Advance() Action { return AdvanceAction{} }

// Replace hands off to another dialog with an explicit payload.
func Replace(dialog string, args Args) Action { return ReplaceAction{Dialog: dialog, Args: args} }

// End terminates the dialog, delivering the given final activities.
func End(activities ...Activity) Action { return EndAction{Activities: activities} }

// EndWithText terminates the dialog with a single text message.
func EndWithText(text string) Action { return End(NewMessage(text)) }

// Step is one stage of a waterfall. It is pure given the session: it reads
// the inbound turn (utterance, intent match, resume result, args), mutates
// only its instance data, queues replies, and returns the next action.
type Step func(ctx context.Context, s *Session) (Action, error)

// Dialog is a named, registerable multi-step interaction flow.
type Dialog struct {
	Name string
	// Trigger is the intent label that invokes this dialog, if any.
	Trigger string
	// Pattern is a literal/regex trigger checked against the raw utterance
	// before any intent routing, if any.
	Pattern *regexp.Regexp
	// Exclusive suppresses intent recognition while this dialog is on the
	// stack: utterances are delivered to its pending prompt instead (direct
	// pattern triggers still match and replace).
	Exclusive bool
	Steps     []Step
}

// Session is a step's view of the current turn, bound to the active
// instance by the engine.
type Session struct {
	ConversationID string
	// Utterance is the verbatim inbound text of this turn.
	Utterance string
	// Match is the intent classification that invoked the dialog; non-nil
	// only on the invoking turn.
	Match *recognizer.IntentMatch
	// Args is the invoke/replace payload; non-nil only on the turn the
	// dialog was pushed.
	Args Args
	// Resume is the typed reply to the previous step's prompt; nil unless
	// this step directly follows a suspension.
	Resume *PromptResult
	// Data is the active instance's private scratch state.
	Data map[string]interface{}

	replies []Activity
}

// Send queues an outbound activity for this turn.
func (s *Session) Send(a Activity) {
	a.Conversation = s.ConversationID
	s.replies = append(s.replies, a)
}

// SendText queues a plain text reply.
func (s *Session) SendText(text string) {
	s.Send(NewMessage(text))
}

// GetString reads a string slot, returning "" when unset.
func (s *Session) GetString(field string) string {
	if v, ok := s.Data[field].(string); ok {
		return v
	}
	return ""
}

// SetIfEmpty writes a slot only when it has no value yet. Pre-filled fields
// are never overwritten by later assignments for the same field.
func (s *Session) SetIfEmpty(field, value string) {
	if s.GetString(field) == "" && value != "" {
		s.Data[field] = value
	}
}

// EnsureField is the slot-filling policy shared by every flow: an extracted
// entity carrying at least one resolved value satisfies the field
// immediately and no prompt fires; otherwise the returned action suspends
// on promptSpec and the resume step records the reply via FillFromResume.
// Returns nil when the field is already satisfied.
func (s *Session) EnsureField(field string, entity *recognizer.Entity, promptSpec PromptRequest) Action {
	if s.GetString(field) != "" {
		return nil
	}
	if entity != nil && len(entity.ResolvedValues) > 0 {
		s.Data[field] = entity.ResolvedValues[0]
		return nil
	}
	return Prompt(promptSpec)
}

// FillFromResume records the normalized prompt result into a still-empty
// field. A field pre-filled from an entity wins over the prompt reply.
func (s *Session) FillFromResume(field string) {
	if s.Resume == nil {
		return
	}
	s.SetIfEmpty(field, s.Resume.Value())
}

func (s *Session) bind(inst *DialogInstance) {
	s.Data = inst.Data
}
