package tracking

import (
	"errors"
	"fmt"
)

// ErrUnavailable classifies every provider failure: transport errors, non
// success responses, authentication failures, malformed payloads and empty
// result sets. Callers skip the affected order and retry on the next run.
var ErrUnavailable = errors.New("tracking status unavailable")

// UnavailableError carries the provider and tracking code of a failed query.
// TrackingCode is empty for settlement feed failures.
type UnavailableError struct {
	Provider     string
	TrackingCode string
	Cause        error
}

func NewUnavailableError(provider, trackingCode string, cause error) *UnavailableError {
	return &UnavailableError{Provider: provider, TrackingCode: trackingCode, Cause: cause}
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s: provider %s", ErrUnavailable, e.Provider)
	if e.TrackingCode != "" {
		msg += ", tracking code " + e.TrackingCode
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %s)", e.Cause)
	}
	return msg
}

// Is lets errors.Is match both ErrUnavailable and the wrapped cause.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
