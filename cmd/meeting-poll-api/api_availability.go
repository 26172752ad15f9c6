// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/handlers"
)

// ParticipantsResponse is the body of the availability list.
type ParticipantsResponse struct {
	Participants []*models.Participant `json:"participants"`
}

// DecisionResponse is the body returned after a slot is confirmed.
type DecisionResponse struct {
	Meeting  *MeetingResponse `json:"meeting"`
	Decision *models.Decision `json:"decision"`
}

// SubmitAvailability records the caller's availability. Callers without a
// token are identified by meeting and display name.
func (s *MeetingPollsAPI) SubmitAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.optionalPrincipal(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var req models.SubmitAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	participant, err := s.availabilityService.SubmitAvailability(ctx, principal, s.pathParam(r, "uid"), &req)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusCreated, participant)
}

// ListAvailability lists every participant's availability for a meeting.
func (s *MeetingPollsAPI) ListAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	participants, err := s.availabilityService.ListParticipants(ctx, s.pathParam(r, "uid"))
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}
	if participants == nil {
		participants = []*models.Participant{}
	}

	s.writeJSON(ctx, w, http.StatusOK, &ParticipantsResponse{Participants: participants})
}

// GetAvailability gets one participant's availability.
func (s *MeetingPollsAPI) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	participant, err := s.availabilityService.GetParticipant(ctx, s.pathParam(r, "uid"), s.pathParam(r, "participant_id"))
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, participant)
}

// GetAnalysis returns the ranked analysis of a meeting's candidate slots.
func (s *MeetingPollsAPI) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := s.pathParam(r, "uid")

	analysis, err := s.analysisService.Analyze(ctx, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	ranked := analysis.Ranked
	if ranked == nil {
		ranked = []models.SlotAnalysis{}
	}

	s.writeJSON(ctx, w, http.StatusOK, &handlers.AnalysisReply{
		MeetingUID:        uid,
		Status:            analysis.Meeting.Status,
		ConfirmedDateTime: analysis.Meeting.ConfirmedDateTime,
		Participants:      analysis.Participants,
		Ranked:            ranked,
	})
}

// Decide confirms a slot, either the top-ranked one or one chosen by the creator.
func (s *MeetingPollsAPI) Decide(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.requirePrincipal(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var req models.DecisionRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meeting, decision, err := s.analysisService.Decide(ctx, principal, s.pathParam(r, "uid"), &req)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, &DecisionResponse{
		Meeting:  s.meetingResponse(meeting),
		Decision: decision,
	})
}
