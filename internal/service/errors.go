package service

import (
	"fmt"
	"time"
)

// ErrorCode classifies errors that cross the assistant boundary
type ErrorCode string

const (
	ErrCodeMissingAPIKey   ErrorCode = "AI_API_KEY_MISSING"
	ErrCodeNoModels        ErrorCode = "AI_NO_MODELS"
	ErrCodeInvalidConfig   ErrorCode = "AI_INVALID_CONFIG"
	ErrCodeAllModelsFailed ErrorCode = "AI_ALL_MODELS_FAILED"
	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
)

// Attempt is the diagnostic recorded for one model of a fallback chain
type Attempt struct {
	Model      string        `json:"model"`
	StatusCode int           `json:"status_code,omitempty"`
	Err        string        `json:"error"`
	Duration   time.Duration `json:"duration"`
}

func (a Attempt) String() string {
	if a.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %s", a.Model, a.StatusCode, a.Err)
	}
	return fmt.Sprintf("model %s: %s", a.Model, a.Err)
}

// AssistantError is the typed error returned by the assistant
type AssistantError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Attempts  []Attempt `json:"attempts,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *AssistantError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on the error code so sentinels work with errors.Is
func (e *AssistantError) Is(target error) bool {
	t, ok := target.(*AssistantError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is
var (
	ErrMissingAPIKey   = &AssistantError{Code: ErrCodeMissingAPIKey, Message: "AI API key is not configured"}
	ErrNoModels        = &AssistantError{Code: ErrCodeNoModels, Message: "no AI models configured"}
	ErrInvalidConfig   = &AssistantError{Code: ErrCodeInvalidConfig, Message: "invalid AI configuration"}
	ErrAllModelsFailed = &AssistantError{Code: ErrCodeAllModelsFailed, Message: "all AI models failed"}
	ErrInvalidRequest  = &AssistantError{Code: ErrCodeInvalidRequest, Message: "invalid chat request"}
)

func newAssistantError(code ErrorCode, message, details string) *AssistantError {
	return &AssistantError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func invalidRequest(format string, args ...any) *AssistantError {
	return newAssistantError(ErrCodeInvalidRequest, "invalid chat request", fmt.Sprintf(format, args...))
}

// UnavailableReply is shown to users when no model could answer
const UnavailableReply = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."
