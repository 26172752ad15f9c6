// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/service"
)

// AnalysisReply is the response body of the get_analysis subject.
type AnalysisReply struct {
	MeetingUID        string                `json:"meeting_uid"`
	Status            models.MeetingStatus  `json:"status"`
	ConfirmedDateTime string                `json:"confirmed_date_time,omitempty"`
	Participants      int                   `json:"participants"`
	Ranked            []models.SlotAnalysis `json:"ranked"`
}

// MeetingPollHandler answers NATS requests about meeting polls.
type MeetingPollHandler struct {
	meetingPollService *service.MeetingPollService
	analysisService    *service.AnalysisService
}

func NewMeetingPollHandler(
	meetingPollService *service.MeetingPollService,
	analysisService *service.AnalysisService,
) *MeetingPollHandler {
	return &MeetingPollHandler{
		meetingPollService: meetingPollService,
		analysisService:    analysisService,
	}
}

func (s *MeetingPollHandler) HandlerReady() bool {
	return s.meetingPollService != nil && s.meetingPollService.ServiceReady() &&
		s.analysisService != nil && s.analysisService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (s *MeetingPollHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.MeetingGetTitleSubject:    s.HandleMeetingGetTitle,
		models.MeetingGetAnalysisSubject: s.HandleMeetingGetAnalysis,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		s.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		s.respond(ctx, msg, nil)
		return
	}

	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	s.respond(ctx, msg, response)
	slog.DebugContext(ctx, "responded to NATS message", "response_bytes", len(response))
}

func (s *MeetingPollHandler) respond(ctx context.Context, msg domain.Message, data []byte) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// meetingUID reads and validates the meeting UID carried as the message body.
func meetingUID(ctx context.Context, msg domain.Message) (context.Context, string, error) {
	uid := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", uid))

	if _, err := uuid.Parse(uid); err != nil {
		slog.ErrorContext(ctx, "error parsing meeting UID", logging.ErrKey, err)
		return ctx, "", err
	}
	return ctx, uid, nil
}

// HandleMeetingGetTitle is the message handler for the meeting-poll-get-title subject.
func (s *MeetingPollHandler) HandleMeetingGetTitle(ctx context.Context, msg domain.Message) ([]byte, error) {
	if s.meetingPollService == nil || !s.meetingPollService.ServiceReady() {
		slog.ErrorContext(ctx, "NATS KV store not initialized")
		return nil, fmt.Errorf("NATS KV store not initialized")
	}

	ctx, uid, err := meetingUID(ctx, msg)
	if err != nil {
		return nil, err
	}

	meeting, _, err := s.meetingPollService.GetMeeting(ctx, uid)
	if err != nil {
		slog.ErrorContext(ctx, "error getting meeting from NATS KV", logging.ErrKey, err)
		return nil, err
	}

	return []byte(meeting.Title), nil
}

// HandleMeetingGetAnalysis is the message handler for the meeting-poll-get-analysis
// subject. It replies with the ranked analysis as JSON.
func (s *MeetingPollHandler) HandleMeetingGetAnalysis(ctx context.Context, msg domain.Message) ([]byte, error) {
	if s.analysisService == nil || !s.analysisService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	ctx, uid, err := meetingUID(ctx, msg)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analysisService.Analyze(ctx, uid)
	if err != nil {
		slog.ErrorContext(ctx, "error analysing meeting", logging.ErrKey, err)
		return nil, err
	}

	ranked := analysis.Ranked
	if ranked == nil {
		ranked = []models.SlotAnalysis{}
	}

	return json.Marshal(AnalysisReply{
		MeetingUID:        uid,
		Status:            analysis.Meeting.Status,
		ConfirmedDateTime: analysis.Meeting.ConfirmedDateTime,
		Participants:      analysis.Participants,
		Ranked:            ranked,
	})
}
