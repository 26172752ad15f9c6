// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// NatsAvailabilityRepository stores participant availability, one KV entry per
// participant and meeting, under availability/<meeting uid>/<participant id>.
type NatsAvailabilityRepository struct {
	*NatsBaseRepository[models.Participant]
	keyBuilder *KeyBuilder
}

// NewNatsAvailabilityRepository creates a new NATS KV store repository for availability.
func NewNatsAvailabilityRepository(kvStore INatsKeyValue) *NatsAvailabilityRepository {
	return &NatsAvailabilityRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Participant](kvStore, "availability"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsAvailabilityRepository) key(meetingUID, participantID string) string {
	return r.keyBuilder.CompoundKeyEncoded(KeyPrefixAvailability, meetingUID, participantID)
}

// PutAvailability writes a participant's availability, replacing any previous submission.
func (r *NatsAvailabilityRepository) PutAvailability(ctx context.Context, participant *models.Participant) error {
	if participant == nil || participant.MeetingUID == "" || participant.ID == "" {
		return domain.NewValidationError("participant id and meeting uid are required")
	}

	revision, err := r.Put(ctx, r.key(participant.MeetingUID, participant.ID), participant)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "stored availability",
		"meeting_uid", participant.MeetingUID,
		"participant_id", participant.ID,
		"revision", revision,
	)
	return nil
}

// GetAvailability returns one participant's submission.
func (r *NatsAvailabilityRepository) GetAvailability(ctx context.Context, meetingUID, participantID string) (*models.Participant, error) {
	return r.Get(ctx, r.key(meetingUID, participantID))
}

// ListAvailability returns every participant's submission for a meeting.
func (r *NatsAvailabilityRepository) ListAvailability(ctx context.Context, meetingUID string) ([]*models.Participant, error) {
	return r.ListEntities(ctx, r.keyBuilder.ChildrenFilter(KeyPrefixAvailability, meetingUID))
}
