package helpers

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Error Taxonomy
// -----------------------------------------------------------------------------

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantRateLimit   bool
		wantValidation  bool
		wantEmptyResult bool
	}{
		{"RateLimit", NewRateLimitError(errors.New("status 429")), true, false, false},
		{"Transport", NewTransportError("request failed", errors.New("conn refused")), false, false, false},
		{"EmptyResponse", NewEmptyResponseError("empty body"), false, false, true},
		{"Validation", NewValidationError("quantity must be positive"), false, true, false},
		{"Plain", errors.New("something else"), false, false, false},
		{"Nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.wantRateLimit {
				t.Errorf("IsRateLimit() = %v, want %v", got, tt.wantRateLimit)
			}
			if got := IsValidation(tt.err); got != tt.wantValidation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.wantValidation)
			}
			if got := IsEmptyResponse(tt.err); got != tt.wantEmptyResult {
				t.Errorf("IsEmptyResponse() = %v, want %v", got, tt.wantEmptyResult)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("refresh failed: %w", NewRateLimitError(errors.New("status 429")))

	if !IsRateLimit(wrapped) {
		t.Errorf("IsRateLimit() lost classification through wrapping")
	}
	if IsValidation(wrapped) {
		t.Errorf("IsValidation() misfired on a wrapped rate limit")
	}
}

// -----------------------------------------------------------------------------

func TestErrorCauseIsUnwrappable(t *testing.T) {
	cause := errors.New("conn refused")
	err := NewTransportError("request failed", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is() cannot reach the cause")
	}
}
