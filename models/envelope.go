package models

import (
	"encoding/json"
	"fmt"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}

// APIError is the error half of an envelope.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeSlotUnavailable = "slot_unavailable"
	CodeInvalidState    = "invalid_state"
	CodeUpstream        = "upstream_error"
	CodeInternal        = "internal_error"
	CodeRateLimited     = "rate_limited"
)

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}
