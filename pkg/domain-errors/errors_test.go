package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	t.Run("code and reason survive wrapping", func(t *testing.T) {
		base := New(CodeConflict, "already active").WithReason(ReasonDuplicateActiveAssignment)
		wrapped := fmt.Errorf("create assignment: %w", base)

		assert.True(t, HasCode(wrapped, CodeConflict))
		assert.True(t, HasReason(wrapped, ReasonDuplicateActiveAssignment))
		assert.False(t, HasReason(wrapped, ReasonExpired))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to load")
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("fields accumulate", func(t *testing.T) {
		err := New(CodeValidation, "bad schema").
			WithFields(FieldError{Field: "mood", Message: "duplicate id"}).
			WithFields(FieldError{Field: "sleep", Message: "unknown kind"})
		de, ok := As(err)
		require.True(t, ok)
		assert.Len(t, de.Fields, 2)
	})
}
