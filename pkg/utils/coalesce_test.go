// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceString(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"meeting timezone wins", []string{"Asia/Tokyo", "Europe/Berlin"}, "Asia/Tokyo"},
		{"falls back to default", []string{"", "Europe/Berlin"}, "Europe/Berlin"},
		{"blank timezone falls back", []string{"  ", "Europe/Berlin"}, "Europe/Berlin"},
		{"trims padded env value", []string{" grpc\n", "http/protobuf"}, "grpc"},
		{"all empty", []string{"", ""}, ""},
		{"no arguments", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoalesceString(tt.values...))
		})
	}
}
