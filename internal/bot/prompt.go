package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PromptKind discriminates the three prompt shapes a step can suspend on.
type PromptKind string

const (
	PromptChoice  PromptKind = "choice"
	PromptText    PromptKind = "text"
	PromptConfirm PromptKind = "confirm"
)

var ErrUnparseableReply = errors.New("PROMPT_PARSE_FAILED")

// PromptRequest is emitted by a step to suspend the dialog and request
// specific user input. It is persisted on the suspended instance so the
// reply on the next turn can be parsed back into a typed result.
type PromptRequest struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
	Choices []string   `json:"choices,omitempty"`
}

// PromptResult is the normalized, typed form of a prompt reply. Steps never
// see the raw reply text for choice and confirm prompts.
type PromptResult struct {
	Kind        PromptKind `json:"kind"`
	ChosenIndex int        `json:"chosenIndex,omitempty"`
	Choice      string     `json:"choice,omitempty"`
	Text        string     `json:"text,omitempty"`
	Confirmed   bool       `json:"confirmed,omitempty"`
}

// Value returns the result as the string a slot should record.
func (r *PromptResult) Value() string {
	switch r.Kind {
	case PromptChoice:
		return r.Choice
	case PromptConfirm:
		return strconv.FormatBool(r.Confirmed)
	}
	return r.Text
}

// NewChoicePrompt builds a choice prompt.
func NewChoicePrompt(message string, choices []string) PromptRequest {
	return PromptRequest{Kind: PromptChoice, Message: message, Choices: choices}
}

// NewTextPrompt builds a free-text prompt.
func NewTextPrompt(message string) PromptRequest {
	return PromptRequest{Kind: PromptText, Message: message}
}

// NewConfirmPrompt builds a yes/no prompt.
func NewConfirmPrompt(message string) PromptRequest {
	return PromptRequest{Kind: PromptConfirm, Message: message}
}

// Activity renders the prompt as an outbound message. Choices are listed as
// numbered options so replies by index parse back.
func (p *PromptRequest) Activity() Activity {
	switch p.Kind {
	case PromptChoice:
		var b strings.Builder
		b.WriteString(p.Message)
		for i, choice := range p.Choices {
			b.WriteString(fmt.Sprintf("\n%d. %s", i+1, choice))
		}
		return NewMessage(b.String())
	case PromptConfirm:
		return NewMessage(p.Message + " (yes/no)")
	}
	return NewMessage(p.Message)
}

// RetryActivity renders the prompt again after an unparseable reply.
func (p *PromptRequest) RetryActivity() Activity {
	retry := p.Activity()
	switch p.Kind {
	case PromptChoice:
		retry.Text = "Please pick one of the listed options.\n" + retry.Text
	case PromptConfirm:
		retry.Text = "Please answer yes or no.\n" + retry.Text
	}
	return retry
}

// ParseReply normalizes a raw utterance into a typed PromptResult for the
// pending prompt. Choice replies match a listed label (case-insensitive) or
// a 1-based index; confirm replies accept common yes/no spellings and the
// 1/2 button indexes. An unrecognized reply returns ErrUnparseableReply and
// the caller re-issues the prompt.
func ParseReply(p *PromptRequest, text string) (*PromptResult, error) {
	trimmed := strings.TrimSpace(text)

	switch p.Kind {
	case PromptChoice:
		for i, choice := range p.Choices {
			if strings.EqualFold(trimmed, choice) {
				return &PromptResult{Kind: PromptChoice, ChosenIndex: i, Choice: choice}, nil
			}
		}
		if idx, err := strconv.Atoi(trimmed); err == nil && idx >= 1 && idx <= len(p.Choices) {
			return &PromptResult{Kind: PromptChoice, ChosenIndex: idx - 1, Choice: p.Choices[idx-1]}, nil
		}
		return nil, fmt.Errorf("%w: %q is not one of the offered choices", ErrUnparseableReply, trimmed)

	case PromptConfirm:
		switch strings.ToLower(trimmed) {
		case "yes", "y", "yep", "sure", "true", "ok", "1":
			return &PromptResult{Kind: PromptConfirm, Confirmed: true}, nil
		case "no", "n", "nope", "false", "2":
			return &PromptResult{Kind: PromptConfirm, Confirmed: false}, nil
		}
		return nil, fmt.Errorf("%w: %q is not a yes/no answer", ErrUnparseableReply, trimmed)

	case PromptText:
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty reply", ErrUnparseableReply)
		}
		return &PromptResult{Kind: PromptText, Text: trimmed}, nil
	}

	return nil, fmt.Errorf("%w: unknown prompt kind %q", ErrUnparseableReply, p.Kind)
}
