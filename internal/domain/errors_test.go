package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), EINTERNAL},
		{"not found", NotFound("grade.get", "grade", "7"), ENOTFOUND},
		{"wrapped conflict", fmt.Errorf("outer: %w", Conflict("grade.create", "exists")), ECONFLICT},
		{"validation", NewValidationError("grade.create", "level", "required"), EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage_MasksInternal(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "grade.list", "failed to list grades")
	assert.NotContains(t, ErrorMessage(err), "connection refused")
	assert.NotContains(t, ErrorMessage(err), "failed to list grades")

	assert.Equal(t, "level must be between 1 and 12", ErrorMessage(Invalid("grade.create", "level must be between 1 and 12")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal(cause, "op", "msg")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "op: msg", err.Error())
	assert.Equal(t, "op", ErrorOp(fmt.Errorf("wrap: %w", err)))
}

func TestAddFieldError(t *testing.T) {
	ve := NewValidationError("grade.create", "level", "required")
	got := AddFieldError(ve, "name", "too long")
	assert.Same(t, ve, got)
	assert.Len(t, got.Fields, 2)

	fresh := AddFieldError(errors.New("x"), "level", "bad")
	assert.Equal(t, map[string]string{"level": "bad"}, fresh.Fields)
}
