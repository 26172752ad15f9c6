// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
)

// AvailabilityService records participant availability.
type AvailabilityService struct {
	MeetingRepository      domain.MeetingRepository
	AvailabilityRepository domain.AvailabilityRepository
	Analysis               *AnalysisService

	now func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService. analysis publishes
// the ranked snapshot after each submission.
func NewAvailabilityService(
	meetingRepository domain.MeetingRepository,
	availabilityRepository domain.AvailabilityRepository,
	analysis *AnalysisService,
) *AvailabilityService {
	return &AvailabilityService{
		MeetingRepository:      meetingRepository,
		AvailabilityRepository: availabilityRepository,
		Analysis:               analysis,
		now:                    time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AvailabilityService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.AvailabilityRepository != nil &&
		s.Analysis != nil && s.Analysis.ServiceReady()
}

// AnonymousParticipantID derives a stable participant ID for a submission
// without a principal, so that resubmitting under the same name replaces the
// earlier answer.
func AnonymousParticipantID(meetingUID, displayName string) string {
	sum := md5.Sum([]byte(meetingUID + "_" + displayName))
	return hex.EncodeToString(sum[:])[:constants.AnonymousParticipantIDLength]
}

// candidateKeys returns the canonical keys a participant may answer for.
func (s *AvailabilityService) candidateKeys(ctx context.Context, meeting *models.Meeting) map[string]struct{} {
	normalizer := s.Analysis.normalizer(ctx, meeting)
	keys := make(map[string]struct{}, len(meeting.CandidateSlots))
	for _, slot := range meeting.CandidateSlots {
		if key, ok := normalizer.NormalizeSlot(ctx, slot); ok {
			keys[key] = struct{}{}
		}
	}
	return keys
}

func (s *AvailabilityService) validateSubmission(ctx context.Context, meeting *models.Meeting, req *models.SubmitAvailabilityRequest) error {
	if req == nil {
		return domain.NewValidationError("request body is required")
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		return domain.NewValidationError("display_name is required")
	}
	if len(req.DisplayName) > constants.MaxDisplayNameLength {
		return domain.NewValidationError("display_name must be at most " + strconv.Itoa(constants.MaxDisplayNameLength) + " characters")
	}

	normalizer := s.Analysis.normalizer(ctx, meeting)
	candidates := s.candidateKeys(ctx, meeting)
	for key, response := range req.Schedule {
		if !response.Status.IsValid() {
			return domain.NewValidationError("invalid availability status " + strconv.Quote(string(response.Status)) + " for slot " + key)
		}
		if len(response.Comment) > constants.MaxCommentLength {
			return domain.NewValidationError("comment for slot " + key + " must be at most " + strconv.Itoa(constants.MaxCommentLength) + " characters")
		}
		if _, ok := candidates[normalizer.NormalizeKey(key)]; !ok {
			return domain.NewValidationError("slot " + key + " is not one of the meeting's candidate slots")
		}
	}

	return nil
}

// SubmitAvailability stores a participant's answers. principal is empty for
// anonymous submissions. Each submission replaces the participant's previous one.
func (s *AvailabilityService) SubmitAvailability(ctx context.Context, principal, meetingUID string, req *models.SubmitAvailabilityRequest) (*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("availability service not ready", domain.ErrServiceUnavailable)
	}
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.MeetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !meeting.IsOpen(now) {
		if meeting.Status != models.MeetingStatusScheduling {
			slog.WarnContext(ctx, "submission for a closed meeting", "status", meeting.Status)
			return nil, domain.NewConflictError("meeting is no longer accepting responses")
		}
		slog.WarnContext(ctx, "submission after the deadline", "deadline", meeting.Deadline)
		return nil, domain.NewValidationError("the response deadline has passed")
	}

	if err := s.validateSubmission(ctx, meeting, req); err != nil {
		return nil, err
	}

	participantID := principal
	if participantID == "" {
		participantID = AnonymousParticipantID(meetingUID, req.DisplayName)
	}
	ctx = logging.AppendCtx(ctx, slog.String("participant_id", participantID))

	schedule := req.Schedule
	if schedule == nil {
		schedule = map[string]models.Response{}
	}

	submittedAt := now.UTC()
	participant := &models.Participant{
		ID:          participantID,
		MeetingUID:  meetingUID,
		DisplayName: req.DisplayName,
		Schedule:    schedule,
		SubmittedAt: &submittedAt,
	}

	if err := s.AvailabilityRepository.PutAvailability(ctx, participant); err != nil {
		slog.ErrorContext(ctx, "error storing availability", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "availability submitted", "answers", len(schedule), "anonymous", principal == "")

	s.Analysis.PublishSnapshot(ctx, meeting)

	return participant, nil
}

// ListParticipants returns every availability submission for a meeting.
func (s *AvailabilityService) ListParticipants(ctx context.Context, meetingUID string) ([]*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("availability service not ready", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	exists, err := s.MeetingRepository.MeetingExists(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
	}

	return s.AvailabilityRepository.ListAvailability(ctx, meetingUID)
}

// GetParticipant returns one participant's submission.
func (s *AvailabilityService) GetParticipant(ctx context.Context, meetingUID, participantID string) (*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("availability service not ready", domain.ErrServiceUnavailable)
	}
	if participantID == "" {
		return nil, domain.NewValidationError("participant ID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	return s.AvailabilityRepository.GetAvailability(ctx, meetingUID, participantID)
}
