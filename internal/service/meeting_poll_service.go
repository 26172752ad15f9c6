// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/calendar"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/scheduling"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
)

// CalendarGenerator renders the calendar file for a confirmed slot.
type CalendarGenerator interface {
	GenerateConfirmedEventICS(params calendar.ConfirmedEventParams) (string, error)
}

// MeetingPollService manages the lifecycle of meeting polls.
type MeetingPollService struct {
	MeetingRepository domain.MeetingRepository
	MessageBuilder    domain.MeetingEventSender
	Calendar          CalendarGenerator
	Config            ServiceConfig

	urls *constants.PollURLGenerator
	now  func() time.Time
}

// NewMeetingPollService creates a new MeetingPollService.
func NewMeetingPollService(
	meetingRepository domain.MeetingRepository,
	messageBuilder domain.MeetingEventSender,
	calendarGenerator CalendarGenerator,
	config ServiceConfig,
) *MeetingPollService {
	return &MeetingPollService{
		MeetingRepository: meetingRepository,
		MessageBuilder:    messageBuilder,
		Calendar:          calendarGenerator,
		Config:            config,
		urls:              constants.NewPollURLGenerator(config.LFXEnvironment, config.AppOrigin),
		now:               time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingPollService) ServiceReady() bool {
	return s.MeetingRepository != nil && s.MessageBuilder != nil
}

// ShareURL returns the participant link for a meeting.
func (s *MeetingPollService) ShareURL(meeting *models.Meeting) string {
	if meeting == nil || meeting.ShareCode == "" {
		return ""
	}
	if s.urls == nil {
		s.urls = constants.NewPollURLGenerator(s.Config.LFXEnvironment, s.Config.AppOrigin)
	}
	return s.urls.ShareURL(meeting.ShareCode)
}

func (s *MeetingPollService) validateCreateMeetingRequest(ctx context.Context, req *models.CreateMeetingRequest) error {
	if req == nil {
		return domain.NewValidationError("request body is required")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return domain.NewValidationError("title is required")
	}
	if len(req.Title) > constants.MaxTitleLength {
		return domain.NewValidationError("title must be at most " + strconv.Itoa(constants.MaxTitleLength) + " characters")
	}

	if req.Deadline != nil && req.Deadline.Before(s.now()) {
		slog.WarnContext(ctx, "deadline cannot be in the past", "deadline", req.Deadline)
		return domain.NewValidationError("deadline cannot be in the past")
	}

	return nil
}

// candidateSlots returns the explicit slots of the request or generates them
// from its date range and daily window.
func (s *MeetingPollService) candidateSlots(ctx context.Context, req *models.CreateMeetingRequest, loc *time.Location) (models.SlotList, error) {
	if len(req.CandidateSlots) > 0 {
		return req.CandidateSlots, nil
	}

	if req.StartDate == "" || req.EndDate == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, domain.NewValidationError("either candidate_slots or start_date, end_date, start_time and end_time are required")
	}

	startDate, err := time.ParseInLocation(time.DateOnly, req.StartDate, loc)
	if err != nil {
		return nil, domain.NewValidationError("invalid start_date", err)
	}
	endDate, err := time.ParseInLocation(time.DateOnly, req.EndDate, loc)
	if err != nil {
		return nil, domain.NewValidationError("invalid end_date", err)
	}

	times, err := scheduling.GenerateTimeSlots(startDate, endDate, req.StartTime, req.EndTime, loc)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, domain.NewValidationError("the requested range produces no candidate slots")
	}

	slots := make(models.SlotList, 0, len(times))
	for _, t := range times {
		slots = append(slots, models.CanonicalSlot(scheduling.FormatSlotKey(t)))
	}

	slog.DebugContext(ctx, "generated candidate slots", "count", len(slots))

	return slots, nil
}

// CreateMeeting creates a meeting poll owned by creatorID.
func (s *MeetingPollService) CreateMeeting(ctx context.Context, creatorID string, req *models.CreateMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}
	if creatorID == "" {
		return nil, domain.NewUnauthenticatedError("a principal is required to create a meeting")
	}

	if err := s.validateCreateMeetingRequest(ctx, req); err != nil {
		return nil, err
	}

	loc, err := s.Config.location(req.Timezone)
	if err != nil {
		return nil, domain.NewValidationError("invalid timezone "+strconv.Quote(req.Timezone), err)
	}

	slots, err := s.candidateSlots(ctx, req, loc)
	if err != nil {
		return nil, err
	}

	uid := uuid.NewString()
	shareCode, err := utils.ShareCode(uid)
	if err != nil {
		slog.ErrorContext(ctx, "error generating share code", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to generate share code", err)
	}

	now := s.now().UTC()
	meeting := &models.Meeting{
		UID:                uid,
		Title:              req.Title,
		Description:        strings.TrimSpace(req.Description),
		CandidateSlots:     slots,
		Timezone:           loc.String(),
		Deadline:           req.Deadline,
		CreatorID:          creatorID,
		Status:             models.MeetingStatusScheduling,
		DecisionsRemaining: models.DefaultDecisionsRemaining,
		ShareCode:          shareCode,
		CreatedAt:          utils.TimePtr(now),
		UpdatedAt:          utils.TimePtr(now),
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", uid))

	if err := s.MeetingRepository.CreateMeeting(ctx, meeting); err != nil {
		slog.ErrorContext(ctx, "error creating meeting in store", logging.ErrKey, err)
		return nil, err
	}

	// The meeting is stored; a failed event is logged rather than failing the request.
	if err := s.MessageBuilder.SendMeetingEvent(ctx, models.ActionCreated, meeting); err != nil {
		slog.WarnContext(ctx, "error publishing meeting created event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "created meeting poll", "slots", len(slots), "creator_id", creatorID)

	return meeting, nil
}

// GetMeeting returns the meeting and its ETag (the store revision).
func (s *MeetingPollService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, "", domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}
	if meetingUID == "" {
		return nil, "", domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, meetingUID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			slog.WarnContext(ctx, "meeting not found", logging.ErrKey, err)
		} else {
			slog.ErrorContext(ctx, "error getting meeting from store", logging.ErrKey, err)
		}
		return nil, "", err
	}

	return meeting, strconv.FormatUint(revision, 10), nil
}

// GetMeetingByShareCode resolves a share code to its meeting.
func (s *MeetingPollService) GetMeetingByShareCode(ctx context.Context, shareCode string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}
	if shareCode == "" {
		return nil, domain.NewValidationError("share code is required")
	}

	meeting, err := s.MeetingRepository.GetMeetingByShareCode(ctx, shareCode)
	if err != nil {
		slog.WarnContext(ctx, "could not resolve share code", logging.ErrKey, err, "share_code", shareCode)
		return nil, err
	}
	return meeting, nil
}

// ListMeetingsByCreator returns the meetings created by creatorID, newest first.
func (s *MeetingPollService) ListMeetingsByCreator(ctx context.Context, creatorID string) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}
	if creatorID == "" {
		return nil, domain.NewUnauthenticatedError("a principal is required to list meetings")
	}

	all, err := s.MeetingRepository.ListAllMeetings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing meetings", logging.ErrKey, err)
		return nil, err
	}

	meetings := make([]*models.Meeting, 0, len(all))
	for _, meeting := range all {
		if meeting != nil && meeting.CreatorID == creatorID {
			meetings = append(meetings, meeting)
		}
	}

	sortMeetingsNewestFirst(meetings)

	return meetings, nil
}

func (s *MeetingPollService) validateUpdateMeetingRequest(req *models.UpdateMeetingRequest, existing *models.Meeting) error {
	if req == nil {
		return domain.NewValidationError("request body is required")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.NewValidationError("title cannot be empty")
		}
		if len(title) > constants.MaxTitleLength {
			return domain.NewValidationError("title must be at most " + strconv.Itoa(constants.MaxTitleLength) + " characters")
		}
		req.Title = &title
	}

	if req.Status != nil && *req.Status != models.MeetingStatusCanceled {
		return domain.NewValidationError("status may only be changed to " + string(models.MeetingStatusCanceled))
	}

	if req.Deadline != nil && req.Deadline.Before(s.now()) {
		return domain.NewValidationError("deadline cannot be in the past")
	}

	if existing.Status != models.MeetingStatusScheduling {
		return domain.NewConflictError("meeting can no longer be changed: status is " + string(existing.Status))
	}

	return nil
}

// UpdateMeeting applies a creator's changes. ifMatch is the ETag returned by
// GetMeeting and is required unless ETag validation is disabled.
func (s *MeetingPollService) UpdateMeeting(ctx context.Context, actorID, meetingUID string, ifMatch *string, req *models.UpdateMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	var expected uint64
	if !s.Config.SkipEtagValidation {
		etag := utils.StringValue(ifMatch)
		if etag == "" {
			slog.WarnContext(ctx, "If-Match header is missing")
			return nil, domain.NewValidationError("If-Match header is required")
		}
		parsed, err := strconv.ParseUint(etag, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "invalid If-Match header", logging.ErrKey, err)
			return nil, domain.NewValidationError("invalid If-Match header", err)
		}
		expected = parsed
	}

	existing, revision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if s.Config.SkipEtagValidation {
		expected = revision
	}

	ctx = logging.AppendCtx(ctx, slog.String("etag", strconv.FormatUint(expected, 10)))

	if actorID == "" || actorID != existing.CreatorID {
		slog.WarnContext(ctx, "non-creator attempted to update meeting", "actor_id", actorID)
		return nil, domain.NewForbiddenError("cannot update meeting", domain.ErrUnauthorized)
	}

	if err := s.validateUpdateMeetingRequest(req, existing); err != nil {
		return nil, err
	}

	updated := *existing
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Deadline != nil {
		updated.Deadline = req.Deadline
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	now := s.now().UTC()
	updated.UpdatedAt = &now

	if err := s.MeetingRepository.UpdateMeeting(ctx, &updated, expected); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			slog.WarnContext(ctx, "If-Match header is stale", logging.ErrKey, err)
		} else {
			slog.ErrorContext(ctx, "error updating meeting in store", logging.ErrKey, err)
		}
		return nil, err
	}

	if err := s.MessageBuilder.SendMeetingEvent(ctx, models.ActionUpdated, &updated); err != nil {
		slog.WarnContext(ctx, "error publishing meeting updated event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "updated meeting poll", "status", updated.Status)

	return &updated, nil
}

// ConfirmedCalendar renders the ICS file for a confirmed meeting.
func (s *MeetingPollService) ConfirmedCalendar(ctx context.Context, meetingUID string) (string, error) {
	if !s.ServiceReady() || s.Calendar == nil {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return "", domain.NewUnavailableError("meeting poll service not ready", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.MeetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		return "", err
	}
	if meeting.Status != models.MeetingStatusConfirmed || meeting.ConfirmedDateTime == "" {
		return "", domain.NewConflictError("meeting has not been confirmed")
	}

	start, err := scheduling.NewNormalizer().ParseTime(meeting.ConfirmedDateTime)
	if err != nil {
		slog.ErrorContext(ctx, "stored confirmed time is not parseable", logging.ErrKey, err,
			"confirmed_date_time", meeting.ConfirmedDateTime,
		)
		return "", domain.NewInternalError("invalid confirmed time", err)
	}

	return s.Calendar.GenerateConfirmedEventICS(calendar.ConfirmedEventParams{
		MeetingUID:      meeting.UID,
		Title:           meeting.Title,
		Description:     meeting.Description,
		Reason:          meeting.ConfirmedReason,
		Start:           start,
		DurationMinutes: constants.ConfirmedEventDurationMinutes,
		URL:             s.ShareURL(meeting),
	})
}

func sortMeetingsNewestFirst(meetings []*models.Meeting) {
	created := func(m *models.Meeting) time.Time {
		if m.CreatedAt == nil {
			return time.Time{}
		}
		return *m.CreatedAt
	}
	slices.SortStableFunc(meetings, func(a, b *models.Meeting) int {
		return created(b).Compare(created(a))
	})
}
