package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrInvalidArgument,
		ErrCallDepthExceeded,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
		sentinel    error
	}{
		{
			name:        "not found with id",
			err:         NewNotFoundError("action", "billing.charge"),
			expectedMsg: `action with id "billing.charge" not found`,
			sentinel:    ErrNotFound,
		},
		{
			name:        "not found without id",
			err:         NewNotFoundError("action", ""),
			expectedMsg: "action not found",
			sentinel:    ErrNotFound,
		},
		{
			name:        "conflict",
			err:         NewConflictError("action", "already registered"),
			expectedMsg: "action conflict: already registered",
			sentinel:    ErrConflict,
		},
		{
			name:        "validation with field",
			err:         NewValidationError("action", "is required"),
			expectedMsg: "validation failed for action: is required",
			sentinel:    ErrValidation,
		},
		{
			name:        "validation without field",
			err:         NewValidationError("", "bad body"),
			expectedMsg: "validation failed: bad body",
			sentinel:    ErrValidation,
		},
		{
			name:        "forbidden with reason",
			err:         NewForbiddenError("relay", "not allowed"),
			expectedMsg: `operation "relay" forbidden: not allowed`,
			sentinel:    ErrForbidden,
		},
		{
			name:        "unavailable with reason",
			err:         NewUnavailableError("billing", "connection refused"),
			expectedMsg: `service "billing" unavailable: connection refused`,
			sentinel:    ErrUnavailable,
		},
		{
			name:        "unavailable without reason",
			err:         NewUnavailableError("billing", ""),
			expectedMsg: `service "billing" unavailable`,
			sentinel:    ErrUnavailable,
		},
		{
			name:        "invalid argument with reason",
			err:         NewInvalidArgumentError("action", "must not be empty"),
			expectedMsg: `invalid argument "action": must not be empty`,
			sentinel:    ErrInvalidArgument,
		},
		{
			name:        "invalid argument without reason",
			err:         NewInvalidArgumentError("service", ""),
			expectedMsg: `invalid argument "service"`,
			sentinel:    ErrInvalidArgument,
		},
		{
			name:        "call depth exceeded",
			err:         NewCallDepthExceededError("system.relay", 33, 32),
			expectedMsg: `action "system.relay" at level 33 exceeds max level 32`,
			sentinel:    ErrCallDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestInvalidArgumentError_As(t *testing.T) {
	err := fmt.Errorf("building context: %w", NewInvalidArgumentError("action", "must not be empty"))

	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "action", invalid.Argument)
	assert.Equal(t, "must not be empty", invalid.Reason)
	assert.Equal(t, ErrInvalidArgument, invalid.Unwrap())
}

func TestCallDepthExceededError_As(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", NewCallDepthExceededError("a", 5, 4))

	var depth *CallDepthExceededError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, "a", depth.Action)
	assert.Equal(t, 5, depth.Level)
	assert.Equal(t, 4, depth.MaxLevel)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"IsNotFound matches", NewNotFoundError("a", "1"), IsNotFound, true},
		{"IsNotFound rejects", NewConflictError("a", "b"), IsNotFound, false},
		{"IsConflict matches", NewConflictError("a", "b"), IsConflict, true},
		{"IsValidation matches", NewValidationError("f", "m"), IsValidation, true},
		{"IsForbidden matches", NewForbiddenError("op", ""), IsForbidden, true},
		{"IsUnavailable matches", NewUnavailableError("svc", ""), IsUnavailable, true},
		{"IsInvalidArgument matches", NewInvalidArgumentError("action", ""), IsInvalidArgument, true},
		{"IsInvalidArgument rejects validation", NewValidationError("action", ""), IsInvalidArgument, false},
		{"IsCallDepthExceeded matches", NewCallDepthExceededError("a", 2, 1), IsCallDepthExceeded, true},
		{"IsCallDepthExceeded wrapped", fmt.Errorf("x: %w", NewCallDepthExceededError("a", 2, 1)), IsCallDepthExceeded, true},
		{"nil error", nil, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
