// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// NATS subjects that the meeting poll service sends messages about.
const (
	// MeetingCreatedSubject is the subject for meeting poll creation events.
	// The subject is of the form: lfx.meeting-polls.meeting_created
	MeetingCreatedSubject = "lfx.meeting-polls.meeting_created"

	// MeetingUpdatedSubject is the subject for meeting poll update events.
	// The subject is of the form: lfx.meeting-polls.meeting_updated
	MeetingUpdatedSubject = "lfx.meeting-polls.meeting_updated"

	// MeetingConfirmedSubject is the subject for slot confirmation events.
	// The subject is of the form: lfx.meeting-polls.meeting_confirmed
	MeetingConfirmedSubject = "lfx.meeting-polls.meeting_confirmed"

	// AnalysisUpdatedSubject carries msgpack snapshots of the ranked analysis.
	// The subject is of the form: lfx.meeting-polls.analysis_updated
	AnalysisUpdatedSubject = "lfx.meeting-polls.analysis_updated"
)

// NATS wildcard subjects that the meeting poll service handles messages about.
const (
	// MeetingPollsAPIQueue is the queue group for the meeting polls API.
	// The subject is of the form: lfx.meeting-polls-api.queue
	MeetingPollsAPIQueue = "lfx.meeting-polls-api.queue"
)

// NATS specific subjects that the meeting poll service handles messages about.
const (
	// MeetingGetTitleSubject is the subject for the meeting poll get title.
	// The subject is of the form: lfx.meeting-polls-api.get_title
	MeetingGetTitleSubject = "lfx.meeting-polls-api.get_title"

	// MeetingGetAnalysisSubject is the subject for the ranked analysis of a meeting poll.
	// The subject is of the form: lfx.meeting-polls-api.get_analysis
	MeetingGetAnalysisSubject = "lfx.meeting-polls-api.get_analysis"
)

// MessageAction is a type for the action of a meeting poll event.
type MessageAction string

// MessageAction constants for the action of a meeting poll event.
const (
	ActionCreated   MessageAction = "created"
	ActionUpdated   MessageAction = "updated"
	ActionConfirmed MessageAction = "confirmed"
)

// MeetingEventMessage is the JSON payload of meeting created/updated events.
type MeetingEventMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers,omitempty"`
	Meeting *Meeting          `json:"meeting"`
}

// MeetingConfirmedMessage is the JSON payload of the confirmation event.
type MeetingConfirmedMessage struct {
	MeetingUID        string       `json:"meeting_uid"`
	Title             string       `json:"title"`
	ConfirmedDateTime string       `json:"confirmed_date_time"`
	ConfirmedReason   string       `json:"confirmed_reason"`
	Mode              DecisionMode `json:"mode"`
	ConfirmedBy       string       `json:"confirmed_by"`

	Headers map[string]string `json:"headers,omitempty"`
}

// AnalysisSnapshotMessage is the msgpack payload of an analysis update.
type AnalysisSnapshotMessage struct {
	MeetingUID   string         `msgpack:"meeting_uid"`
	Participants int            `msgpack:"participants"`
	Ranked       []SlotAnalysis `msgpack:"ranked"`
	GeneratedAt  time.Time      `msgpack:"generated_at"`
}
