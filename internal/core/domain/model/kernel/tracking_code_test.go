package kernel_test

import (
	"strings"
	"testing"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingCode(t *testing.T) {
	t.Run("should accept a voucher number", func(t *testing.T) {
		code, err := kernel.NewTrackingCode("7204512345")

		require.NoError(t, err)
		require.NoError(t, code.Validate())
		assert.Equal(t, "7204512345", code.String())
	})

	t.Run("should trim surrounding whitespace", func(t *testing.T) {
		code, err := kernel.NewTrackingCode("  V100\n")

		require.NoError(t, err)
		assert.Equal(t, "V100", code.String())
	})

	testCases := []struct {
		name     string
		raw      string
		sentinel error
	}{
		{name: "empty", raw: "", sentinel: errs.ErrValueIsRequired},
		{name: "blank", raw: "   ", sentinel: errs.ErrValueIsRequired},
		{name: "inner space", raw: "V1 00", sentinel: errs.ErrValueIsInvalid},
		{name: "control char", raw: "V1\x0000", sentinel: errs.ErrValueIsInvalid},
		{name: "too long", raw: strings.Repeat("9", kernel.MaxTrackingCodeLength+1), sentinel: errs.ErrValueIsOutOfRange},
	}

	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			code, err := kernel.NewTrackingCode(tc.raw)

			require.ErrorIs(t, err, tc.sentinel)
			require.ErrorIs(t, code.Validate(), kernel.ErrTrackingCodeIsNotConstructed)
		})
	}
}

func TestTrackingCode_IsEqual(t *testing.T) {
	a := kernel.MustNewTrackingCode("V100")
	b := kernel.MustNewTrackingCode(" V100 ")
	c := kernel.MustNewTrackingCode("V200")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestMustNewTrackingCode_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { kernel.MustNewTrackingCode("") })
}
