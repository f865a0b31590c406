package errs

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes plus the machine-readable codes below.
var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidTrackingCode = errors.New("invalid tracking code format")
	ErrMissingTrackingCode = errors.New("tracking code is required")
)

// Machine-readable error codes carried in API response bodies.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeMissingCode      = "MISSING_TRACKING_CODE"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeUnauthorized     = "UNAUTHORIZED"
)
