package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Custom Error Types
//
// Each fetch failure mode is a distinct reportable condition so that a view
// can show an accurate message ("try again in a minute" vs generic failure).
// -----------------------------------------------------------------------------

type CryptoTrackerError struct {
	Message string
	Cause   error
}

func (e *CryptoTrackerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CryptoTrackerError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------

// RateLimitError signals the provider returned HTTP 429. Recoverable by
// waiting; the next scheduled tick retries.
type RateLimitError struct{ CryptoTrackerError }

// TransportError covers timeouts, connection failures and non-success status
// codes other than the rate limit.
type TransportError struct{ CryptoTrackerError }

// EmptyResponseError signals an empty or malformed body. Treated as a
// failure, never as valid empty data.
type EmptyResponseError struct{ CryptoTrackerError }

// ValidationError signals a rejected portfolio mutation. No partial state
// change has happened when it is returned.
type ValidationError struct{ CryptoTrackerError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewRateLimitError(cause error) error {
	return &RateLimitError{CryptoTrackerError{Message: "rate limit exceeded, try again in a minute", Cause: cause}}
}

func NewTransportError(message string, cause error) error {
	return &TransportError{CryptoTrackerError{Message: message, Cause: cause}}
}

func NewEmptyResponseError(message string) error {
	return &EmptyResponseError{CryptoTrackerError{Message: message}}
}

func NewValidationError(message string) error {
	return &ValidationError{CryptoTrackerError{Message: message}}
}

// -----------------------------------------------------------------------------
// Classification helpers for the view boundary
// -----------------------------------------------------------------------------

func IsRateLimit(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsEmptyResponse(err error) bool {
	var e *EmptyResponseError
	return errors.As(err, &e)
}
