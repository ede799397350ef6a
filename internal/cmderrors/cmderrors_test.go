package cmderrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := UserError{
		Message:    "Keystore not found",
		Suggestion: "Run 'knest init' to create one",
	}
	assert.Contains(t, err.Error(), "Keystore not found")
	assert.Contains(t, err.Error(), "Try: Run 'knest init'")
}

func TestUserErrorFallsBackToWrapped(t *testing.T) {
	t.Parallel()

	inner := errors.New("disk full")
	err := UserError{Err: inner}

	assert.Equal(t, "disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}
