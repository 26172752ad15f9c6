// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareCode_RoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		uid := uuid.New().String()

		code, err := ShareCode(uid)
		require.NoError(t, err)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "l")
		assert.Less(t, len(code), len(uid))

		decoded, err := UIDFromShareCode(code)
		require.NoError(t, err)
		assert.Equal(t, uid, decoded)
	}
}

func TestShareCode_Errors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "uid is not a uuid",
			run: func() error {
				_, err := ShareCode("meeting-1")
				return err
			},
		},
		{
			name: "code has characters outside the alphabet",
			run: func() error {
				_, err := UIDFromShareCode("0OIl")
				return err
			},
		},
		{
			name: "code decodes to the wrong length",
			run: func() error {
				_, err := UIDFromShareCode("2NEpo7TZRRrLZSi2U")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.run())
		})
	}
}
