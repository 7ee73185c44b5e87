package models

import "time"

// Severity levels offered by the ticket flow's choice prompt. Free-form
// values are accepted too when the recognizer resolves something else.
const (
	SeverityHigh   = "high"
	SeverityNormal = "normal"
	SeverityLow    = "low"
)

// Ticket is the record built incrementally by the SubmitTicket flow.
// Immutable once submitted.
type Ticket struct {
	Category    string `json:"category" db:"category"`
	Severity    string `json:"severity" db:"severity"`
	Description string `json:"description" db:"description"`
}

// StoredTicket is a persisted ticket row in the tickets API.
type StoredTicket struct {
	ID        int64     `json:"id" db:"id"`
	Ticket
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SeverityChoices returns the fixed three-way severity prompt choices.
func SeverityChoices() []string {
	return []string{SeverityHigh, SeverityNormal, SeverityLow}
}
