// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound},
		{"conflict", NewConflictError("modified"), ErrorTypeConflict},
		{"internal", NewInternalError("boom"), ErrorTypeInternal},
		{"unavailable", NewUnavailableError("down"), ErrorTypeUnavailable},
		{"unauthenticated", NewUnauthenticatedError("no token"), ErrorTypeUnauthenticated},
		{"forbidden", NewForbiddenError("not creator", ErrUnauthorized), ErrorTypeForbidden},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewNotFoundError("missing")), ErrorTypeNotFound},
		{"plain error defaults to internal", errors.New("plain"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorType(tt.err))
		})
	}
}

func TestDomainError_Message(t *testing.T) {
	assert.Equal(t, "meeting not found", NewNotFoundError("meeting not found").Error())
	assert.Equal(t, "cannot decide: no eligible slot",
		NewValidationError("cannot decide", ErrNoEligibleSlot).Error())
}

func TestDomainError_SentinelsSurviveWrapping(t *testing.T) {
	err := NewValidationError("cannot decide", ErrNoEligibleSlot)
	assert.ErrorIs(t, err, ErrNoEligibleSlot)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	err = NewForbiddenError("decision rejected", ErrUnauthorized)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, ErrorTypeForbidden, GetErrorType(err))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNoEligibleSlot, ErrUnauthorized, ErrServiceUnavailable, ErrMeetingNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
