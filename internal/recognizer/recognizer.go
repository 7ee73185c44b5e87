// Package recognizer defines the intent/entity extraction contract. The
// classifier itself is a black box; the bot only reads the best intent
// label, its score, and the ordered entity list.
package recognizer

import "context"

// Entity is a typed span extracted from an utterance.
type Entity struct {
	Type           string   `json:"type"`
	ResolvedValues []string `json:"resolvedValues,omitempty"`
	RawText        string   `json:"rawText"`
}

// IntentMatch is the classification of a single utterance. Produced fresh
// per inbound message and never persisted.
type IntentMatch struct {
	Intent   string   `json:"intent"`
	Score    float64  `json:"score"`
	Entities []Entity `json:"entities,omitempty"`
}

// Recognizer classifies a raw utterance.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) (*IntentMatch, error)
}

// FindEntity returns the first entity of the given type, or nil.
func FindEntity(match *IntentMatch, entityType string) *Entity {
	if match == nil {
		return nil
	}
	for i := range match.Entities {
		if match.Entities[i].Type == entityType {
			return &match.Entities[i]
		}
	}
	return nil
}

// FirstResolvedValue returns the entity's first resolved value, falling back
// to its raw text when the recognizer resolved nothing.
func FirstResolvedValue(e *Entity) string {
	if e == nil {
		return ""
	}
	if len(e.ResolvedValues) > 0 {
		return e.ResolvedValues[0]
	}
	return e.RawText
}
