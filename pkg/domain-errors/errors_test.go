package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("new error carries code and message", func(t *testing.T) {
		err := New(CodeValidation, "name is required")
		require.Error(t, err)
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Equal(t, "name is required", MessageOf(err))
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("redis down")
		err := Wrap(cause, CodeInternal, "failed to persist snapshot")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("finalize: %w", New(CodeConflict, "already finalized"))
		assert.True(t, Is(err))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, Is(err))
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Empty(t, MessageOf(err))
	})
}
