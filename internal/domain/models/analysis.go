// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// SlotAnalysis is the derived aggregate for one candidate slot.
type SlotAnalysis struct {
	SlotKey           string    `json:"slot_key" msgpack:"slot_key"`
	DateTime          time.Time `json:"date_time" msgpack:"date_time"`
	AvailableCount    int       `json:"available_count" msgpack:"available_count"`
	MaybeCount        int       `json:"maybe_count" msgpack:"maybe_count"`
	UnavailableCount  int       `json:"unavailable_count" msgpack:"unavailable_count"`
	TotalParticipants int       `json:"total_participants" msgpack:"total_participants"`
	Score             float64   `json:"score" msgpack:"score"`
	// KeyValid is false when SlotKey is the normalizer fallback rather than a parsed slot.
	KeyValid bool `json:"key_valid" msgpack:"key_valid"`
}

// HasResponses reports whether anyone answered for the slot.
func (a SlotAnalysis) HasResponses() bool {
	return a.AvailableCount+a.MaybeCount+a.UnavailableCount > 0
}

// DecisionMode selects how the confirmed slot is chosen.
type DecisionMode string

const (
	// DecisionModeAutomatic picks the highest-ranked slot.
	DecisionModeAutomatic DecisionMode = "automatic"
	// DecisionModeManual uses the slot chosen by the creator.
	DecisionModeManual DecisionMode = "manual"
)

// IsValid reports whether the mode is known.
func (m DecisionMode) IsValid() bool {
	return m == DecisionModeAutomatic || m == DecisionModeManual
}

// Decision is the state transition applied to a meeting when a slot is confirmed.
type Decision struct {
	Status            MeetingStatus `json:"status"`
	ConfirmedDateTime string        `json:"confirmed_date_time"`
	ConfirmedReason   string        `json:"confirmed_reason"`
	Mode              DecisionMode  `json:"mode"`
}

// Apply writes the decision onto the meeting.
func (d *Decision) Apply(m *Meeting) {
	m.Status = d.Status
	m.ConfirmedDateTime = d.ConfirmedDateTime
	m.ConfirmedReason = d.ConfirmedReason
}

// DecisionRequest is the input for confirming a slot.
type DecisionRequest struct {
	Mode    DecisionMode `json:"mode"`
	SlotKey string       `json:"slot_key,omitempty"`
}
