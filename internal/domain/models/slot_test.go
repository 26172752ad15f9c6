// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SlotList
	}{
		{
			name:     "canonical strings",
			input:    `["2024-01-15T09:00:00.000Z","2024-01-15T09:30:00.000Z"]`,
			expected: SlotList{CanonicalSlot("2024-01-15T09:00:00.000Z"), CanonicalSlot("2024-01-15T09:30:00.000Z")},
		},
		{
			name:     "wrapped key",
			input:    `[{"key":"2024-01-15T09:00:00Z"}]`,
			expected: SlotList{WrappedSlot{Key: "2024-01-15T09:00:00Z"}},
		},
		{
			name:     "stored timestamp",
			input:    `[{"seconds":1705309200,"nanoseconds":0}]`,
			expected: SlotList{LazySlot{Converter: Timestamp{Seconds: 1705309200}}},
		},
		{
			name:     "number is invalid",
			input:    `[42]`,
			expected: SlotList{InvalidSlot{Raw: json.RawMessage(`42`)}},
		},
		{
			name:     "object without known fields is invalid",
			input:    `[{"foo":"bar"}]`,
			expected: SlotList{InvalidSlot{Raw: json.RawMessage(`{"foo":"bar"}`)}},
		},
		{
			name:     "non-string key is invalid",
			input:    `[{"key":5}]`,
			expected: SlotList{InvalidSlot{Raw: json.RawMessage(`{"key":5}`)}},
		},
		{
			name:     "empty list",
			input:    `[]`,
			expected: SlotList{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SlotList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSlotList_UnmarshalJSON_NotArray(t *testing.T) {
	var got SlotList
	assert.Error(t, json.Unmarshal([]byte(`{"key":"x"}`), &got))
}

func TestSlotList_MarshalJSON(t *testing.T) {
	native := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	list := SlotList{
		CanonicalSlot("2024-01-15T09:00:00.000Z"),
		NativeSlot(native),
		WrappedSlot{Key: "2024-01-15T10:00:00.000Z"},
		LazySlot{Converter: Timestamp{Seconds: 1705309200}},
	}

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		"2024-01-15T09:00:00.000Z",
		"2024-01-15T09:00:00Z",
		{"key":"2024-01-15T10:00:00.000Z"},
		{"seconds":1705309200,"nanoseconds":0}
	]`, string(data))

	var decoded SlotList
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, SlotKindCanonical, decoded[0].Kind())
	// Native times travel as strings.
	assert.Equal(t, SlotKindCanonical, decoded[1].Kind())
	assert.Equal(t, SlotKindWrapped, decoded[2].Kind())
	assert.Equal(t, SlotKindLazy, decoded[3].Kind())
}

type failingConverter struct{}

func (failingConverter) ToDate() (time.Time, error) {
	return time.Time{}, errors.New("no date")
}

type fixedConverter time.Time

func (c fixedConverter) ToDate() (time.Time, error) { return time.Time(c), nil }

func TestSlotList_MarshalJSON_LazySlots(t *testing.T) {
	tests := []struct {
		name     string
		slot     SlotValue
		expected string
	}{
		{"without converter", LazySlot{}, `null`},
		{"converter error", LazySlot{Converter: failingConverter{}}, `null`},
		{
			"custom converter",
			LazySlot{Converter: fixedConverter(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))},
			`"2024-01-15T09:00:00Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := SlotList{CanonicalSlot("2024-01-15T10:00:00.000Z"), tt.slot}

			var data []byte
			require.NotPanics(t, func() {
				var err error
				data, err = json.Marshal(list)
				require.NoError(t, err)
			})
			assert.JSONEq(t, `["2024-01-15T10:00:00.000Z",`+tt.expected+`]`, string(data))
		})
	}
}

func TestMeeting_MarshalJSON_UnusableLazySlot(t *testing.T) {
	meeting := Meeting{
		UID:            "8a0f6c1e-3b7d-4c52-9e1a-2f4d6b8c0a11",
		CandidateSlots: SlotList{CanonicalSlot("2024-01-15T10:00:00.000Z"), LazySlot{}},
		Status:         MeetingStatusScheduling,
	}

	data, err := json.Marshal(meeting)
	require.NoError(t, err)

	var decoded Meeting
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.CandidateSlots, 2)
	assert.Equal(t, SlotKindCanonical, decoded.CandidateSlots[0].Kind())
	assert.Equal(t, SlotKindInvalid, decoded.CandidateSlots[1].Kind())
}

func TestTimestamp_ToDate(t *testing.T) {
	got, err := Timestamp{Seconds: 1705309200, Nanoseconds: 500000000}.ToDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 500000000, time.UTC), got)

	_, err = Timestamp{Seconds: 1, Nanoseconds: -1}.ToDate()
	assert.Error(t, err)
}

func TestCanonicalSlots(t *testing.T) {
	slots := CanonicalSlots("a", "b")
	assert.Equal(t, SlotList{CanonicalSlot("a"), CanonicalSlot("b")}, slots)
}
