package bot

import (
	"context"
	"fmt"
	"sync"

	commonerrors "helpdesk-bot/internal/common/errors"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/common/metrics"
	"helpdesk-bot/internal/recognizer"
)

// DefaultFallback is the terminal response when no dialog claims an
// utterance. %s is the raw utterance.
const DefaultFallback = "I'm sorry, I did not understand '%s'.\nType 'help' to know more about me :)"

// Engine drives one conversation turn at a time: routing, step execution up
// to the next suspension or dialog end, and state persistence. Turns for
// the same conversation are strictly sequential; different conversations
// proceed concurrently.
type Engine struct {
	registry   *Registry
	store      Store
	recognizer recognizer.Recognizer
	logger     logger.Logger
	errHandler *commonerrors.ConversationErrorHandler

	// ScoreThreshold is the minimum intent score required to invoke a
	// dialog by intent.
	ScoreThreshold float64
	// Fallback overrides DefaultFallback when non-empty.
	Fallback string

	locks sync.Map // conversationID -> *sync.Mutex
}

func NewEngine(registry *Registry, store Store, rec recognizer.Recognizer, log logger.Logger) *Engine {
	return &Engine{
		registry:   registry,
		store:      store,
		recognizer: rec,
		logger:     log.WithFields(map[string]interface{}{"component": "engine"}),
		errHandler: commonerrors.NewConversationErrorHandler(log),
	}
}

func (e *Engine) lock(conversationID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(conversationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleMessage processes one inbound utterance as an atomic turn and
// returns the replies to deliver. State is loaded before and saved after;
// no two turns of the same conversation interleave.
func (e *Engine) HandleMessage(ctx context.Context, conversationID, text string) ([]Activity, error) {
	mu := e.lock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	state, err := e.store.Load(ctx, conversationID)
	if err != nil {
		metrics.TurnsProcessed.WithLabelValues("store_error").Inc()
		return nil, commonerrors.NewStateStoreFailedError(err.Error())
	}

	sess := &Session{ConversationID: conversationID, Utterance: text}

	outcome := e.route(ctx, state, sess, text)
	metrics.TurnsProcessed.WithLabelValues(outcome).Inc()

	if err := e.store.Save(ctx, conversationID, state); err != nil {
		return nil, commonerrors.NewStateStoreFailedError(err.Error())
	}

	return sess.replies, nil
}

// route picks the turn's target: a pattern-matched dialog, an intent-matched
// dialog, the active instance's pending prompt, or the fallback response.
func (e *Engine) route(ctx context.Context, state *State, sess *Session, text string) string {
	active := state.Active()

	// Literal/regex triggers match first, even mid-flow: a pattern hit
	// while a dialog is active replaces it, discarding its data.
	if d := e.registry.MatchPattern(text); d != nil {
		if active != nil {
			e.pop(state)
		}
		e.invoke(ctx, state, sess, d, nil, nil)
		return "pattern"
	}

	// An exclusive active dialog suppresses intent recognition entirely:
	// the utterance is a plain reply to its pending prompt.
	if active != nil && e.isExclusive(active) {
		e.resume(ctx, state, sess, text)
		return "resumed"
	}

	match := e.recognize(ctx, text)
	if match != nil && match.Score >= e.ScoreThreshold {
		if d := e.registry.MatchIntent(match.Intent); d != nil {
			if active != nil {
				e.pop(state)
			}
			e.invoke(ctx, state, sess, d, match, nil)
			return "intent"
		}
	}

	if active != nil {
		e.resume(ctx, state, sess, text)
		return "resumed"
	}

	fallback := e.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	sess.SendText(fmt.Sprintf(fallback, text))
	return "fallback"
}

func (e *Engine) isExclusive(inst *DialogInstance) bool {
	d := e.registry.Get(inst.Name)
	return d != nil && d.Exclusive
}

// recognize runs the extractor, treating any failure as "no match" per the
// extraction-failure policy.
func (e *Engine) recognize(ctx context.Context, text string) *recognizer.IntentMatch {
	if e.recognizer == nil {
		return nil
	}
	match, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		e.logger.Warn("intent extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return match
}

// invoke pushes a fresh instance and runs it from step zero.
func (e *Engine) invoke(ctx context.Context, state *State, sess *Session, d *Dialog, match *recognizer.IntentMatch, args Args) {
	state.Push(d.Name)
	metrics.DialogsStarted.WithLabelValues(d.Name).Inc()

	sess.Match = match
	sess.Args = args
	sess.Resume = nil

	e.run(ctx, state, sess)
}

// resume parses the reply against the pending prompt and runs the resume
// step. An unparseable reply re-issues the prompt; the raw text never
// reaches a step.
func (e *Engine) resume(ctx context.Context, state *State, sess *Session, text string) {
	active := state.Active()
	if active.Prompt == nil {
		// Active but not suspended: nothing is awaiting input, so the
		// utterance gets the fallback treatment without disturbing the
		// stack.
		fallback := e.Fallback
		if fallback == "" {
			fallback = DefaultFallback
		}
		sess.SendText(fmt.Sprintf(fallback, text))
		return
	}

	result, err := ParseReply(active.Prompt, text)
	if err != nil {
		e.logger.Debug("prompt reply did not parse", map[string]interface{}{
			"conversationId": sess.ConversationID,
			"dialog":         active.Name,
			"kind":           string(active.Prompt.Kind),
		})
		sess.Send(active.Prompt.RetryActivity())
		return
	}

	sess.Resume = result
	sess.Match = nil
	sess.Args = nil
	active.Prompt = nil

	e.run(ctx, state, sess)
}

// run executes steps for the active instance until a suspension, a dialog
// end, or an error. Replacement continues in the same turn with the new
// dialog's first step.
func (e *Engine) run(ctx context.Context, state *State, sess *Session) {
	for {
		inst := state.Active()
		if inst == nil {
			return
		}

		d := e.registry.Get(inst.Name)
		if d == nil || inst.Step >= len(d.Steps) {
			// Unknown dialog or a waterfall that ran off its last step:
			// the instance is done.
			e.pop(state)
			return
		}

		sess.bind(inst)

		action, err := d.Steps[inst.Step](ctx, sess)
		if err != nil {
			e.errHandler.HandleTurnError(sess.ConversationID, inst.Name, err)
			e.pop(state)
			return
		}

		// A resume result applies only to the step directly following the
		// suspension.
		sess.Resume = nil

		switch a := action.(type) {
		case PromptAction:
			inst.Step++
			inst.Prompt = &a.Request
			sess.Send(a.Request.Activity())
			metrics.PromptsIssued.WithLabelValues(string(a.Request.Kind)).Inc()
			return

		case AdvanceAction:
			inst.Step++

		case ReplaceAction:
			e.pop(state)
			next := e.registry.Get(a.Dialog)
			if next == nil {
				e.logger.Error("replace target not registered", map[string]interface{}{
					"dialog": a.Dialog,
				})
				return
			}
			state.Push(next.Name)
			metrics.DialogsStarted.WithLabelValues(next.Name).Inc()
			sess.Match = nil
			sess.Args = a.Args

		case EndAction:
			e.pop(state)
			for _, act := range a.Activities {
				sess.Send(act)
			}
			return

		default:
			e.logger.Error("step returned no action", map[string]interface{}{
				"dialog": inst.Name,
				"step":   inst.Step,
			})
			e.pop(state)
			return
		}
	}
}

func (e *Engine) pop(state *State) {
	if inst := state.Active(); inst != nil {
		metrics.DialogsEnded.WithLabelValues(inst.Name).Inc()
	}
	state.Pop()
}
