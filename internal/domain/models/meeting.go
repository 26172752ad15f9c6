// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// MeetingStatus is the lifecycle state of a meeting poll.
type MeetingStatus string

const (
	// MeetingStatusScheduling is the state while availability is being collected.
	MeetingStatusScheduling MeetingStatus = "scheduling"
	// MeetingStatusConfirmed is the state once a slot has been chosen.
	MeetingStatusConfirmed MeetingStatus = "confirmed"
	// MeetingStatusCanceled is the state after the creator cancels the poll.
	MeetingStatusCanceled MeetingStatus = "canceled"
)

// DefaultDecisionsRemaining is the number of automatic decisions a new meeting may request.
const DefaultDecisionsRemaining = 2

// Meeting is the key-value store representation of a meeting poll.
type Meeting struct {
	UID                string        `json:"uid"`
	Title              string        `json:"title"`
	Description        string        `json:"description,omitempty"`
	CandidateSlots     SlotList      `json:"candidate_slots"`
	Timezone           string        `json:"timezone,omitempty"`
	Deadline           *time.Time    `json:"deadline,omitempty"`
	CreatorID          string        `json:"creator_id"`
	Status             MeetingStatus `json:"status"`
	ConfirmedDateTime  string        `json:"confirmed_date_time,omitempty"`
	ConfirmedReason    string        `json:"confirmed_reason,omitempty"`
	DecisionsRemaining int           `json:"decisions_remaining"`
	ShareCode          string        `json:"share_code,omitempty"`
	CreatedAt          *time.Time    `json:"created_at,omitempty"`
	UpdatedAt          *time.Time    `json:"updated_at,omitempty"`
}

// IsOpen reports whether the meeting still accepts availability at the given time.
func (m *Meeting) IsOpen(now time.Time) bool {
	if m == nil || m.Status != MeetingStatusScheduling {
		return false
	}
	return m.Deadline == nil || !now.After(*m.Deadline)
}

// CreateMeetingRequest is the input for creating a meeting poll. Either
// CandidateSlots is set, or the date range and daily window are used to
// generate them.
type CreateMeetingRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StartDate      string     `json:"start_date,omitempty"`
	EndDate        string     `json:"end_date,omitempty"`
	StartTime      string     `json:"start_time,omitempty"`
	EndTime        string     `json:"end_time,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CandidateSlots SlotList   `json:"candidate_slots,omitempty"`
}

// UpdateMeetingRequest carries the fields a creator may change. Nil fields are left untouched.
type UpdateMeetingRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	Status      *MeetingStatus `json:"status,omitempty"`
}
