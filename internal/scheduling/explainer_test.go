// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

func analysisAt(hour, available, maybe, unavailable, total int) models.SlotAnalysis {
	at := time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC)
	return models.SlotAnalysis{
		SlotKey:           FormatSlotKey(at),
		DateTime:          at,
		AvailableCount:    available,
		MaybeCount:        maybe,
		UnavailableCount:  unavailable,
		TotalParticipants: total,
		Score:             computeScore(available, maybe, total),
		KeyValid:          true,
	}
}

func TestExplainer_Explain(t *testing.T) {
	tests := []struct {
		name     string
		top      models.SlotAnalysis
		rest     []models.SlotAnalysis
		expected string
	}{
		{
			name: "unanimous",
			top:  analysisAt(9, 3, 0, 0, 3),
			expected: "AI Analysis: This time slot has the highest compatibility score (100.0%). " +
				"All 3 participants marked this time as available. ",
		},
		{
			name: "majority with maybe and one alternative",
			top:  analysisAt(9, 2, 1, 0, 3),
			rest: []models.SlotAnalysis{
				analysisAt(10, 1, 1, 1, 3),
				analysisAt(11, 0, 1, 2, 3),
			},
			expected: "AI Analysis: This time slot has the highest compatibility score (83.3%). " +
				"2 out of 3 participants are available, with 1 additional participants marking it as 'maybe'. " +
				"Alternative times considered include 1/15/2024, 10:00:00 AM.",
		},
		{
			name: "majority without maybe",
			top:  analysisAt(9, 3, 0, 1, 4),
			expected: "AI Analysis: This time slot has the highest compatibility score (75.0%). " +
				"3 out of 4 participants are available, ",
		},
		{
			name: "half is not a majority",
			top:  analysisAt(9, 2, 0, 2, 4),
			expected: "AI Analysis: This time slot has the highest compatibility score (50.0%). " +
				"While only 2 participants are definitely available, " +
				"making it the best compromise among all options. ",
		},
		{
			name: "compromise with maybe and two alternatives",
			top:  analysisAt(9, 1, 2, 1, 4),
			rest: []models.SlotAnalysis{
				analysisAt(14, 1, 1, 2, 4),
				analysisAt(15, 1, 1, 2, 4),
				analysisAt(16, 1, 1, 0, 4),
			},
			expected: "AI Analysis: This time slot has the highest compatibility score (50.0%). " +
				"While only 1 participants are definitely available, 2 more marked it as 'maybe', " +
				"making it the best compromise among all options. " +
				"Alternative times considered include 1/15/2024, 2:00:00 PM and 1/15/2024, 3:00:00 PM.",
		},
		{
			name: "no participants is not unanimous",
			top:  analysisAt(9, 0, 0, 0, 0),
			expected: "AI Analysis: This time slot has the highest compatibility score (0.0%). " +
				"While only 0 participants are definitely available, " +
				"making it the best compromise among all options. ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := append([]models.SlotAnalysis{tt.top}, tt.rest...)
			assert.Equal(t, tt.expected, Explainer{}.Explain(tt.top, ranked))
		})
	}
}

func TestExplainer_AlternativesRespectThreshold(t *testing.T) {
	top := analysisAt(9, 5, 0, 0, 5)
	ranked := []models.SlotAnalysis{
		top,
		{DateTime: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), Score: 20},
		{DateTime: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), Score: 20.1},
	}

	reason := Explainer{}.Explain(top, ranked)

	assert.NotContains(t, reason, "10:00:00 AM")
	assert.Contains(t, reason, "Alternative times considered include 1/15/2024, 11:00:00 AM.")
}

func TestExplainer_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	top := analysisAt(9, 2, 0, 0, 2)
	alt := analysisAt(10, 1, 0, 1, 2)

	reason := Explainer{Location: loc}.Explain(top, []models.SlotAnalysis{top, alt})

	assert.Contains(t, reason, "1/15/2024, 7:00:00 PM")
}

func TestExplainer_Layout(t *testing.T) {
	top := analysisAt(9, 2, 0, 0, 2)
	alt := analysisAt(10, 1, 0, 1, 2)
	ranked := []models.SlotAnalysis{top, alt}

	tests := []struct {
		name      string
		explainer Explainer
		expected  string
	}{
		{"default is en-US", Explainer{}, "1/15/2024, 10:00:00 AM"},
		{"custom layout", Explainer{Layout: "02.01.2006 15:04"}, "15.01.2024 10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.explainer.Explain(top, ranked), "Alternative times considered include "+tt.expected+".")
		})
	}
}

func TestManualReason(t *testing.T) {
	reason := ManualReason(analysisAt(9, 2, 1, 0, 5))
	assert.Equal(t, "Manually selected by meeting organizer. 2 participants available, 1 maybe available.", reason)
}
