// Package errors provides standardized error handling for conversation flows.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Recognizer errors
	ErrCodeExtractionFailed    ErrorCode = "EXTRACTION_FAILED"
	ErrCodeRecognizerTimeout   ErrorCode = "RECOGNIZER_TIMEOUT"
	ErrCodeRecognizerBadStatus ErrorCode = "RECOGNIZER_BAD_STATUS"

	// Knowledge-base search errors
	ErrCodeSearchQueryFailed       ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout           ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeFacetQueryFailed        ErrorCode = "FACET_QUERY_FAILED"
	ErrCodeSearchConnectionFailed  ErrorCode = "SEARCH_CONNECTION_FAILED"
	ErrCodeSearchResponseMalformed ErrorCode = "SEARCH_RESPONSE_MALFORMED"

	// Ticket errors
	ErrCodeTicketSubmitFailed   ErrorCode = "TICKET_SUBMIT_FAILED"
	ErrCodeTicketRejected       ErrorCode = "TICKET_REJECTED"
	ErrCodeTicketInsertFailed   ErrorCode = "TICKET_INSERT_FAILED"
	ErrCodeTicketInvalidPayload ErrorCode = "TICKET_INVALID_PAYLOAD"

	// Dialog engine errors
	ErrCodeUnknownDialog     ErrorCode = "UNKNOWN_DIALOG"
	ErrCodePromptParseFailed ErrorCode = "PROMPT_PARSE_FAILED"
	ErrCodeStateStoreFailed  ErrorCode = "STATE_STORE_FAILED"
	ErrCodeStateCorrupted    ErrorCode = "STATE_CORRUPTED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError marks a failed knowledge-base query.
func NewSearchQueryFailedError(details string) *StandardError {
	return New(ErrCodeSearchQueryFailed, "Knowledge base query failed", details)
}

// NewTicketSubmitFailedError marks a failed ticket submission call.
func NewTicketSubmitFailedError(details string) *StandardError {
	return New(ErrCodeTicketSubmitFailed, "Ticket submission failed", details)
}

// NewExtractionFailedError marks a recognizer failure. The router treats it
// as "no intent matched" rather than surfacing it to the user.
func NewExtractionFailedError(details string) *StandardError {
	return New(ErrCodeExtractionFailed, "Intent extraction failed", details)
}

// NewStateStoreFailedError marks a conversation-state persistence failure.
func NewStateStoreFailedError(details string) *StandardError {
	return New(ErrCodeStateStoreFailed, "Conversation state store failed", details)
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeExtractionFailed, ErrCodeRecognizerTimeout, ErrCodeRecognizerBadStatus:
		return "recognizer"
	case ErrCodeSearchQueryFailed, ErrCodeSearchTimeout, ErrCodeFacetQueryFailed,
		ErrCodeSearchConnectionFailed, ErrCodeSearchResponseMalformed:
		return "search"
	case ErrCodeTicketSubmitFailed, ErrCodeTicketRejected, ErrCodeTicketInsertFailed,
		ErrCodeTicketInvalidPayload:
		return "tickets"
	case ErrCodeUnknownDialog, ErrCodePromptParseFailed, ErrCodeStateStoreFailed,
		ErrCodeStateCorrupted:
		return "engine"
	case ErrCodeNotificationSendFailed:
		return "notifications"
	}
	return "unknown"
}
