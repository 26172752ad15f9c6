// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
)

// NatsMeetingRepository is the NATS KV store repository for meeting polls.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meeting polls.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsMeetingRepository) key(meetingUID string) string {
	return r.keyBuilder.EntityKeyEncoded(KeyPrefixMeeting, meetingUID)
}

// CreateMeeting stores a new meeting poll.
func (r *NatsMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	if meeting == nil || meeting.UID == "" {
		return domain.NewValidationError("meeting uid is required")
	}
	return r.Create(ctx, r.key(meeting.UID), meeting)
}

// MeetingExists checks if a meeting poll exists.
func (r *NatsMeetingRepository) MeetingExists(ctx context.Context, meetingUID string) (bool, error) {
	return r.Exists(ctx, r.key(meetingUID))
}

// GetMeeting retrieves a meeting poll by UID.
func (r *NatsMeetingRepository) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, _, err := r.GetMeetingWithRevision(ctx, meetingUID)
	return meeting, err
}

// GetMeetingWithRevision retrieves a meeting poll and its KV revision.
func (r *NatsMeetingRepository) GetMeetingWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	meeting, revision, err := r.GetWithRevision(ctx, r.key(meetingUID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
		}
		return nil, 0, err
	}
	return meeting, revision, nil
}

// UpdateMeeting writes the meeting poll if revision is still current.
func (r *NatsMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.Update(ctx, r.key(meeting.UID), meeting, revision)
}

// GetMeetingByShareCode resolves a share code to its meeting poll.
func (r *NatsMeetingRepository) GetMeetingByShareCode(ctx context.Context, shareCode string) (*models.Meeting, error) {
	uid, err := utils.UIDFromShareCode(shareCode)
	if err != nil {
		return nil, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound, err)
	}
	return r.GetMeeting(ctx, uid)
}

// ListAllMeetings returns every stored meeting poll.
func (r *NatsMeetingRepository) ListAllMeetings(ctx context.Context) ([]*models.Meeting, error) {
	return r.ListEntities(ctx, r.keyBuilder.ChildrenFilter(KeyPrefixMeeting))
}
