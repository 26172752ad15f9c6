// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// AvailabilityStatus is a participant's answer for one slot.
type AvailabilityStatus string

const (
	// AvailabilityAvailable means the participant can attend.
	AvailabilityAvailable AvailabilityStatus = "available"
	// AvailabilityMaybe means the participant might attend.
	AvailabilityMaybe AvailabilityStatus = "maybe"
	// AvailabilityUnavailable means the participant cannot attend.
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// IsValid reports whether the status is one of the known values.
func (s AvailabilityStatus) IsValid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityMaybe, AvailabilityUnavailable:
		return true
	}
	return false
}

// Response is a participant's answer for a single slot.
type Response struct {
	Status  AvailabilityStatus `json:"status"`
	Comment string             `json:"comment,omitempty"`
}

// Participant is one availability submission for a meeting. Schedule is sparse:
// a slot key that is absent means the participant did not answer for it.
type Participant struct {
	ID          string              `json:"id"`
	MeetingUID  string              `json:"meeting_uid"`
	DisplayName string              `json:"display_name"`
	Schedule    map[string]Response `json:"schedule"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
}

// SubmitAvailabilityRequest is the input for recording a participant's availability.
type SubmitAvailabilityRequest struct {
	DisplayName string              `json:"display_name"`
	Schedule    map[string]Response `json:"schedule"`
}
