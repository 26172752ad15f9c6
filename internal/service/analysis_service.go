// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/scheduling"
)

const meterName = "github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/service"

// Analysis is the ranked view of a meeting's candidate slots.
type Analysis struct {
	Meeting      *models.Meeting
	Participants int
	Ranked       []models.SlotAnalysis
}

// AnalysisService scores availability and records decisions.
type AnalysisService struct {
	MeetingRepository      domain.MeetingRepository
	AvailabilityRepository domain.AvailabilityRepository
	MessageBuilder         domain.MeetingEventSender
	Config                 ServiceConfig

	decisions metric.Int64Counter
	now       func() time.Time
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(
	meetingRepository domain.MeetingRepository,
	availabilityRepository domain.AvailabilityRepository,
	messageBuilder domain.MeetingEventSender,
	config ServiceConfig,
) *AnalysisService {
	decisions, err := otel.Meter(meterName).Int64Counter(
		"meeting_poll.decisions",
		metric.WithDescription("Confirmed meeting poll decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		slog.Warn("could not create decisions counter", logging.ErrKey, err)
		decisions = noop.Int64Counter{}
	}

	return &AnalysisService{
		MeetingRepository:      meetingRepository,
		AvailabilityRepository: availabilityRepository,
		MessageBuilder:         messageBuilder,
		Config:                 config,
		decisions:              decisions,
		now:                    time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AnalysisService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.AvailabilityRepository != nil &&
		s.MessageBuilder != nil
}

// meetingLocation is the zone slots without an offset are read in and
// alternatives are rendered in.
func (s *AnalysisService) meetingLocation(ctx context.Context, meeting *models.Meeting) *time.Location {
	loc, err := s.Config.location(meeting.Timezone)
	if err != nil {
		slog.WarnContext(ctx, "meeting timezone is not loadable, using UTC", logging.ErrKey, err, "timezone", meeting.Timezone)
		return time.UTC
	}
	return loc
}

func (s *AnalysisService) normalizer(ctx context.Context, meeting *models.Meeting) *scheduling.Normalizer {
	return scheduling.NewNormalizer(
		scheduling.WithClock(s.now),
		scheduling.WithLocation(s.meetingLocation(ctx, meeting)),
	)
}

// analyze scores and ranks a snapshot of the meeting's availability.
func (s *AnalysisService) analyze(ctx context.Context, meeting *models.Meeting) (*Analysis, error) {
	participants, err := s.AvailabilityRepository.ListAvailability(ctx, meeting.UID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing availability", logging.ErrKey, err)
		return nil, err
	}

	analyses := s.normalizer(ctx, meeting).Score(ctx, meeting.CandidateSlots, participants)

	return &Analysis{
		Meeting:      meeting,
		Participants: len(participants),
		Ranked:       scheduling.Rank(analyses),
	}, nil
}

// Analyze returns the ranked analysis for a meeting.
func (s *AnalysisService) Analyze(ctx context.Context, meetingUID string) (*Analysis, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("analysis service not ready", domain.ErrServiceUnavailable)
	}
	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.MeetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return s.analyze(ctx, meeting)
}

// PublishSnapshot re-reads the meeting's availability and publishes the ranked
// analysis. Failures are logged; the snapshot is informational.
func (s *AnalysisService) PublishSnapshot(ctx context.Context, meeting *models.Meeting) {
	analysis, err := s.analyze(ctx, meeting)
	if err != nil {
		slog.WarnContext(ctx, "could not build analysis snapshot", logging.ErrKey, err)
		return
	}

	err = s.MessageBuilder.SendAnalysisSnapshot(ctx, models.AnalysisSnapshotMessage{
		MeetingUID:   meeting.UID,
		Participants: analysis.Participants,
		Ranked:       analysis.Ranked,
		GeneratedAt:  s.now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "error publishing analysis snapshot", logging.ErrKey, err)
	}
}

// Decide confirms a slot for the meeting on behalf of actorID. The meeting is
// written once, guarded by the revision read at the start of the call, so a
// concurrent decision fails with a conflict.
func (s *AnalysisService) Decide(ctx context.Context, actorID, meetingUID string, req *models.DecisionRequest) (*models.Meeting, *models.Decision, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, nil, domain.NewUnavailableError("analysis service not ready", domain.ErrServiceUnavailable)
	}
	if meetingUID == "" {
		return nil, nil, domain.NewValidationError("meeting UID is required")
	}
	if req == nil || !req.Mode.IsValid() {
		return nil, nil, domain.NewValidationError("mode must be automatic or manual")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("decision_mode", string(req.Mode)))

	meeting, revision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := s.analyze(ctx, meeting)
	if err != nil {
		return nil, nil, err
	}

	var decision *models.Decision
	switch req.Mode {
	case models.DecisionModeAutomatic:
		explainer := scheduling.Explainer{Location: s.meetingLocation(ctx, meeting)}
		decision, err = scheduling.DecideAutomatically(meeting, actorID, analysis.Ranked, explainer)
		if err == nil && meeting.DecisionsRemaining <= 0 {
			err = domain.NewValidationError("no automatic decisions remaining for this meeting")
		}
	case models.DecisionModeManual:
		slotKey := s.normalizer(ctx, meeting).NormalizeKey(req.SlotKey)
		decision, err = scheduling.DecideManually(meeting, actorID, analysis.Ranked, slotKey)
	}
	if err != nil {
		slog.WarnContext(ctx, "decision rejected", logging.ErrKey, err, "actor_id", actorID)
		return nil, nil, err
	}

	updated := *meeting
	decision.Apply(&updated)
	if decision.Mode == models.DecisionModeAutomatic {
		updated.DecisionsRemaining--
	}
	now := s.now().UTC()
	updated.UpdatedAt = &now

	if err := s.MeetingRepository.UpdateMeeting(ctx, &updated, revision); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			slog.WarnContext(ctx, "meeting changed while deciding", logging.ErrKey, err)
		} else {
			slog.ErrorContext(ctx, "error recording decision", logging.ErrKey, err)
		}
		return nil, nil, err
	}

	s.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(decision.Mode))))

	err = s.MessageBuilder.SendMeetingConfirmed(ctx, models.MeetingConfirmedMessage{
		MeetingUID:        updated.UID,
		Title:             updated.Title,
		ConfirmedDateTime: decision.ConfirmedDateTime,
		ConfirmedReason:   decision.ConfirmedReason,
		Mode:              decision.Mode,
		ConfirmedBy:       actorID,
	})
	if err != nil {
		slog.WarnContext(ctx, "error publishing meeting confirmed event", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "meeting time confirmed",
		"confirmed_date_time", decision.ConfirmedDateTime,
		"participants", analysis.Participants,
	)

	return &updated, decision, nil
}
