// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// MeetingRepository defines the interface for meeting poll storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting *models.Meeting) error
	MeetingExists(ctx context.Context, meetingUID string) (bool, error)
	GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetMeetingWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	// UpdateMeeting fails with a conflict error when revision is stale.
	UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error
	GetMeetingByShareCode(ctx context.Context, shareCode string) (*models.Meeting, error)
	ListAllMeetings(ctx context.Context) ([]*models.Meeting, error)
}

// AvailabilityRepository stores one availability document per participant.
// Writes are last-write-wins.
type AvailabilityRepository interface {
	PutAvailability(ctx context.Context, participant *models.Participant) error
	GetAvailability(ctx context.Context, meetingUID, participantID string) (*models.Participant, error)
	ListAvailability(ctx context.Context, meetingUID string) ([]*models.Participant, error)
}
