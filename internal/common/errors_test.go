package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("Failed to export backup", inner)

	assert.Equal(t, "Failed to export backup: disk full", err.Error())
	assert.ErrorIs(t, err, inner, "wrapped cause stays reachable")

	var userErr *UserError
	if assert.ErrorAs(t, err, &userErr) {
		assert.Equal(t, "Failed to export backup", userErr.UserMessage)
	}
}

func TestUserError_WithoutCause(t *testing.T) {
	err := NewUserError("No card with suffix 9999", nil)
	assert.Equal(t, "No card with suffix 9999", err.Error())
}
