package gladia

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorStatus string

const (
	ErrorStatusInvalidConfig   ErrorStatus = "invalid_config"
	ErrorStatusSessionCreation ErrorStatus = "session_creation_failed"
	ErrorStatusInvalidState    ErrorStatus = "invalid_state"
	ErrorStatusMalformedEvent  ErrorStatus = "malformed_event"
	ErrorStatusTransportFault  ErrorStatus = "transport_fault"
	ErrorStatusHandlerError    ErrorStatus = "handler_error"
	ErrorStatusServerError     ErrorStatus = "server_error"
	ErrorStatusAPIError        ErrorStatus = "api_error"
	ErrorStatusAuthError       ErrorStatus = "auth_error"
	ErrorStatusBadRequest      ErrorStatus = "bad_request"
	ErrorStatusQuotaExceeded   ErrorStatus = "quota_exceeded"
	ErrorStatusNetworkError    ErrorStatus = "network_error"
	ErrorStatusWebSocketError  ErrorStatus = "websocket_error"
)

type Error struct {
	Status  ErrorStatus
	Message string
	Code    *int
	Cause   error
}

func (e *Error) Error() string {
	var msg string
	if e.Code != nil {
		msg = fmt.Sprintf("gladia: %s (code=%d): %s", e.Status, *e.Code, e.Message)
	} else {
		msg = fmt.Sprintf("gladia: %s: %s", e.Status, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(status ErrorStatus, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

func NewErrorWithCode(status ErrorStatus, message string, code int) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Code:    &code,
	}
}

func NewErrorWithCause(status ErrorStatus, message string, cause error) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

func IsErrorStatus(err error, status ErrorStatus) bool {
	var gladiaErr *Error
	if errors.As(err, &gladiaErr) {
		return gladiaErr.Status == status
	}
	return false
}

var (
	ErrSessionNotActive = NewError(ErrorStatusInvalidState, "session is not active")
	ErrSessionClosed    = NewError(ErrorStatusInvalidState, "session is closed")
)

// APIError is the body returned by the Gladia REST API on a non-2xx response.
type APIError struct {
	StatusCode       int      `json:"statusCode"`
	Message          string   `json:"message"`
	RequestID        string   `json:"request_id"`
	Timestamp        string   `json:"timestamp"`
	Path             string   `json:"path"`
	ValidationErrors []string `json:"validation_errors"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += " (request_id=" + e.RequestID + ")"
	}
	if len(e.ValidationErrors) > 0 {
		msg += "; validation errors: " + strings.Join(e.ValidationErrors, ", ")
	}
	return msg
}

// apiErrorStatus maps an HTTP status code to a typed ErrorStatus.
func apiErrorStatus(code int) ErrorStatus {
	switch code {
	case 401, 403:
		return ErrorStatusAuthError
	case 400, 422:
		return ErrorStatusBadRequest
	case 402, 429:
		return ErrorStatusQuotaExceeded
	case 408, 500, 502, 503, 504:
		return ErrorStatusNetworkError
	default:
		return ErrorStatusAPIError
	}
}

// mapAPIError wraps a REST failure so callers can match on ErrorStatus and
// still reach the *APIError with errors.As.
func mapAPIError(apiErr *APIError, fallback string) *Error {
	if apiErr.Message == "" {
		apiErr.Message = fallback
	}
	err := NewErrorWithCode(apiErrorStatus(apiErr.StatusCode), fallback, apiErr.StatusCode)
	err.Cause = apiErr
	return err
}
