// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		input    []models.SlotAnalysis
		expected []string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []string{},
		},
		{
			name: "descending by score",
			input: []models.SlotAnalysis{
				{SlotKey: "a", Score: 10},
				{SlotKey: "b", Score: 90},
				{SlotKey: "c", Score: 50},
			},
			expected: []string{"b", "c", "a"},
		},
		{
			name: "ties keep candidate order",
			input: []models.SlotAnalysis{
				{SlotKey: "a", Score: 50},
				{SlotKey: "b", Score: 75},
				{SlotKey: "c", Score: 50},
				{SlotKey: "d", Score: 75},
				{SlotKey: "e", Score: 50},
			},
			expected: []string{"b", "d", "a", "c", "e"},
		},
		{
			name: "all equal",
			input: []models.SlotAnalysis{
				{SlotKey: "a"}, {SlotKey: "b"}, {SlotKey: "c"},
			},
			expected: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(tt.input)
			keys := make([]string, 0, len(ranked))
			for _, r := range ranked {
				keys = append(keys, r.SlotKey)
			}
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	input := []models.SlotAnalysis{{SlotKey: "a", Score: 1}, {SlotKey: "b", Score: 2}}

	_ = Rank(input)

	assert.Equal(t, "a", input[0].SlotKey)
	assert.Equal(t, "b", input[1].SlotKey)
}
