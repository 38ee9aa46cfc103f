package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

// MaxTrackingCodeLength bounds the voucher column width of the order store.
const MaxTrackingCodeLength = 64

// ErrTrackingCodeIsNotConstructed is returned when validating a zero-value TrackingCode.
var ErrTrackingCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"TrackingCode must be created via NewTrackingCode",
)

// TrackingCode is the courier voucher number that correlates an order row
// with provider responses. It is the business key of every store update.
//
// Surrounding whitespace is removed; inner whitespace and control characters
// are rejected since providers never issue them.
type TrackingCode struct {
	value string
	guard guard.ConstructorGuard
}

// NewTrackingCode validates and normalises raw.
func NewTrackingCode(raw string) (TrackingCode, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return TrackingCode{}, errs.NewValueIsRequiredError("tracking code")
	}
	if len(value) > MaxTrackingCodeLength {
		return TrackingCode{}, errs.NewValueIsOutOfRangeError("tracking code length", len(value), 1, MaxTrackingCodeLength)
	}
	if strings.IndexFunc(value, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("%q contains whitespace or control characters", value),
		)
	}

	return TrackingCode{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustNewTrackingCode panics on invalid input. Intended for tests and constants.
func MustNewTrackingCode(raw string) TrackingCode {
	code, err := NewTrackingCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func (c TrackingCode) String() string {
	return c.value
}

func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.value == other.value
}

func (c TrackingCode) Validate() error {
	return c.guard.Validate(ErrTrackingCodeIsNotConstructed)
}
