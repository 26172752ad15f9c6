// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
)

// MeetingResponse is a meeting together with its participant link.
type MeetingResponse struct {
	*models.Meeting
	ShareURL string `json:"share_url,omitempty"`
}

// MeetingsResponse is the body of the meeting list.
type MeetingsResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
}

func (s *MeetingPollsAPI) meetingResponse(meeting *models.Meeting) *MeetingResponse {
	return &MeetingResponse{
		Meeting:  meeting,
		ShareURL: s.meetingPollService.ShareURL(meeting),
	}
}

// ListMeetings lists the meetings created by the caller.
func (s *MeetingPollsAPI) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.requirePrincipal(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meetings, err := s.meetingPollService.ListMeetingsByCreator(ctx, principal)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	resp := &MeetingsResponse{Meetings: make([]*MeetingResponse, 0, len(meetings))}
	for _, meeting := range meetings {
		resp.Meetings = append(resp.Meetings, s.meetingResponse(meeting))
	}
	s.writeJSON(ctx, w, http.StatusOK, resp)
}

// CreateMeeting creates a new meeting poll owned by the caller.
func (s *MeetingPollsAPI) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.requirePrincipal(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var req models.CreateMeetingRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meeting, err := s.meetingPollService.CreateMeeting(ctx, principal, &req)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusCreated, s.meetingResponse(meeting))
}

// GetMeeting gets a single meeting poll. The ETag header carries the revision
// to send back as If-Match when updating.
func (s *MeetingPollsAPI) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meeting, etag, err := s.meetingPollService.GetMeeting(ctx, s.pathParam(r, "uid"))
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, etag)
	s.writeJSON(ctx, w, http.StatusOK, s.meetingResponse(meeting))
}

// GetMeetingByShareCode resolves a participant link to its meeting.
func (s *MeetingPollsAPI) GetMeetingByShareCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meeting, err := s.meetingPollService.GetMeetingByShareCode(ctx, s.pathParam(r, "code"))
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, s.meetingResponse(meeting))
}

// UpdateMeeting applies the creator's changes to a meeting poll.
func (s *MeetingPollsAPI) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.requirePrincipal(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var req models.UpdateMeetingRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var ifMatch *string
	if etag := r.Header.Get("If-Match"); etag != "" {
		ifMatch = utils.StringPtr(etag)
	}

	meeting, err := s.meetingPollService.UpdateMeeting(ctx, principal, s.pathParam(r, "uid"), ifMatch, &req)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, s.meetingResponse(meeting))
}

// GetCalendar downloads the calendar file of a confirmed meeting.
func (s *MeetingPollsAPI) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := s.pathParam(r, "uid")

	ics, err := s.meetingPollService.ConfirmedCalendar(ctx, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+uid+`.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics)); err != nil {
		slog.ErrorContext(ctx, "error writing calendar", logging.ErrKey, err)
	}
}
