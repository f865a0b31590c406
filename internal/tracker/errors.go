package tracker

import (
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a tracking failure for the UI layer. Each kind maps to
// exactly one fixed user-facing message; transport error text never
// reaches the user.
type Kind string

const (
	KindInvalidTrackingCode Kind = "invalid_tracking_code"
	KindNotFound            Kind = "not_found"
	KindNetworkError        Kind = "network_error"
	KindDatabaseError       Kind = "database_error"
	KindValidationError     Kind = "validation_error"
	KindRateLimited         Kind = "rate_limited"
	// KindUnauthorized is reserved: no current flow produces it.
	KindUnauthorized Kind = "unauthorized"
)

var userMessages = map[Kind]string{
	KindInvalidTrackingCode: "The tracking code you entered is invalid or has expired.",
	KindNetworkError:        "Unable to connect to our servers. Please check your internet connection and try again.",
	KindDatabaseError:       "We're experiencing technical difficulties. Please try again in a few minutes.",
	KindValidationError:     "The information provided is invalid. Please check your input and try again.",
	KindUnauthorized:        "You don't have permission to access this ticket.",
	KindNotFound:            "The ticket you're looking for could not be found.",
	KindRateLimited:         "Too many requests. Please wait a moment before trying again.",
}

const fallbackMessage = "An unexpected error occurred. Please try again."

// Error is a tracking failure surfaced to the UI layer.
type Error struct {
	Kind      Kind
	Details   string
	Code      string
	Timestamp time.Time
}

func newError(kind Kind, details, code string) *Error {
	return &Error{Kind: kind, Details: details, Code: code, Timestamp: time.Now()}
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Details)
	}
	return string(e.Kind)
}

// Message is the fixed user-facing text for this error.
func (e *Error) Message() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	return fallbackMessage
}

// KindForStatus maps an HTTP status code to an error kind. Both server and
// client carry this mapping so each degrades gracefully on its own.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidationError
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindDatabaseError
	default:
		return KindNetworkError
	}
}
