// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MeetingEventSender publishes meeting poll lifecycle events.
type MeetingEventSender interface {
	SendMeetingEvent(ctx context.Context, action models.MessageAction, meeting *models.Meeting) error
	SendMeetingConfirmed(ctx context.Context, data models.MeetingConfirmedMessage) error
	SendAnalysisSnapshot(ctx context.Context, data models.AnalysisSnapshotMessage) error
}
