package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("vendor", "v-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "vendor v-1 not found", Message(err))
	assert.Equal(t, "vendor not found", NewNotFoundError("vendor", "").Message)
}

func TestAppErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("creating transaction: %w", NewValidationError("split amounts must sum to the transaction amount"))
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "split amounts must sum to the transaction amount", Message(wrapped))

	plain := errors.New("boom")
	assert.Equal(t, "boom", Message(plain))

	internal := NewAppError(500, "failed to commit transaction", plain)
	assert.Equal(t, "failed to commit transaction: boom", internal.Error())
	assert.True(t, errors.Is(internal, plain))
}
