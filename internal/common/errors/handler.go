package errors

import "time"

// Logger is the minimal logging surface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ConversationErrorHandler logs turn-level failures in a standardized way.
// Errors never escalate past the conversation boundary: the dialog that hit
// the failure ends with its fixed apology and the handler only records what
// happened.
type ConversationErrorHandler struct {
	logger Logger
}

func NewConversationErrorHandler(logger Logger) *ConversationErrorHandler {
	return &ConversationErrorHandler{logger: logger}
}

// HandleTurnError normalizes and logs an error raised while processing a turn.
func (h *ConversationErrorHandler) HandleTurnError(conversationID, dialog string, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("turn failed", map[string]interface{}{
		"conversationId": conversationID,
		"dialog":         dialog,
		"errorCode":      string(stdErr.Code),
		"message":        stdErr.Message,
		"details":        stdErr.Details,
		"errorCategory":  GetErrorCategory(stdErr.Code),
	})
}

// normalizeError ensures we always have a StandardError.
func (h *ConversationErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
