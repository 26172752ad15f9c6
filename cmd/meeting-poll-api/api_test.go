// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/infrastructure/calendar"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/service"
)

const (
	testMeetingUID = "8a0f6c1e-3b7d-4c52-9e1a-2f4d6b8c0a11"
	creatorToken   = "Bearer creator-token"
	slot0930       = "2099-06-03T09:30:00.000Z"
)

type apiFixture struct {
	handler      http.Handler
	jwt          *auth.MockJWTAuth
	meetings     *mocks.MockMeetingRepository
	availability *mocks.MockAvailabilityRepository
	events       *mocks.MockMessageBuilder
}

func newAPIFixture(t *testing.T, env environment) *apiFixture {
	t.Helper()

	f := &apiFixture{
		jwt:          &auth.MockJWTAuth{},
		meetings:     &mocks.MockMeetingRepository{},
		availability: &mocks.MockAvailabilityRepository{},
		events:       &mocks.MockMessageBuilder{},
	}
	f.jwt.On("ParsePrincipal", mock.Anything, creatorToken, mock.Anything).Return("creator", nil)
	f.jwt.On("ParsePrincipal", mock.Anything, "Bearer bad", mock.Anything).
		Return("", domain.NewUnauthenticatedError("invalid token"))

	config := service.ServiceConfig{LFXEnvironment: "dev"}
	meetingPollService := service.NewMeetingPollService(f.meetings, f.events, calendar.NewICSGenerator(), config)
	analysisService := service.NewAnalysisService(f.meetings, f.availability, f.events, config)
	availabilityService := service.NewAvailabilityService(f.meetings, f.availability, analysisService)

	api := NewMeetingPollsAPI(
		service.NewAuthService(f.jwt),
		meetingPollService,
		availabilityService,
		analysisService,
		handlers.NewMeetingPollHandler(meetingPollService, analysisService),
	)

	if env.AvailabilityLimit == 0 {
		env.AvailabilityLimit = 100
		env.AvailabilityBurst = 100
	}
	f.handler = newHandler(env, api)
	return f
}

func (f *apiFixture) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func futureMeeting() *models.Meeting {
	return &models.Meeting{
		UID:                testMeetingUID,
		Title:              "Release planning",
		CandidateSlots:     models.CanonicalSlots(slot0930),
		CreatorID:          "creator",
		Status:             models.MeetingStatusScheduling,
		DecisionsRemaining: models.DefaultDecisionsRemaining,
		ShareCode:          "abc",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest},
		{"no eligible slot", domain.NewValidationError("none", domain.ErrNoEligibleSlot), http.StatusBadRequest},
		{"unauthenticated", domain.NewUnauthenticatedError("who"), http.StatusUnauthorized},
		{"forbidden", domain.NewForbiddenError("no", domain.ErrUnauthorized), http.StatusForbidden},
		{"not found", domain.NewNotFoundError("gone"), http.StatusNotFound},
		{"conflict", domain.NewConflictError("race"), http.StatusConflict},
		{"unavailable", domain.NewUnavailableError("down"), http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusCode(tt.err))
		})
	}
}

func TestAPI_Health(t *testing.T) {
	f := newAPIFixture(t, environment{})

	rec := f.do(http.MethodGet, "/livez", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = f.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_CreateMeeting(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("CreateMeeting", mock.Anything, mock.AnythingOfType("*models.Meeting")).Return(nil)
	f.events.On("SendMeetingEvent", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

	body := `{"title":"Sync","start_date":"2099-01-05","end_date":"2099-01-06","start_time":"09:00","end_time":"10:00"}`
	rec := f.do(http.MethodPost, "/meetings", creatorToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		UID            string          `json:"uid"`
		CreatorID      string          `json:"creator_id"`
		CandidateSlots models.SlotList `json:"candidate_slots"`
		ShareURL       string          `json:"share_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UID)
	assert.Equal(t, "creator", resp.CreatorID)
	assert.Len(t, resp.CandidateSlots, 4)
	assert.True(t, strings.HasPrefix(resp.ShareURL, "https://app.dev.lfx.dev/meeting-polls/"))
}

func TestAPI_CreateMeeting_Errors(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		body     string
		wantCode int
	}{
		{"missing token", "", `{"title":"x"}`, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", `{"title":"x"}`, http.StatusUnauthorized},
		{"empty body", creatorToken, "", http.StatusBadRequest},
		{"malformed body", creatorToken, `{"title":`, http.StatusBadRequest},
		{"missing slots", creatorToken, `{"title":"x"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, environment{})
			rec := f.do(http.MethodPost, "/meetings", tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec).Message)
			f.meetings.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
		})
	}
}

func TestAPI_GetMeeting(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeetingWithRevision", mock.Anything, testMeetingUID).Return(futureMeeting(), uint64(4), nil)
	f.meetings.On("GetMeetingWithRevision", mock.Anything, "missing").
		Return(nil, uint64(0), domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound))

	rec := f.do(http.MethodGet, "/meetings/"+testMeetingUID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), `"share_url":"https://app.dev.lfx.dev/meeting-polls/abc"`)

	rec = f.do(http.MethodGet, "/meetings/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404", decodeError(t, rec).Code)
}

func TestAPI_GetMeetingByShareCode(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeetingByShareCode", mock.Anything, "abc").Return(futureMeeting(), nil)

	rec := f.do(http.MethodGet, "/meetings/share/abc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testMeetingUID)
}

func TestAPI_UpdateMeeting(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeetingWithRevision", mock.Anything, testMeetingUID).Return(futureMeeting(), uint64(4), nil)
	f.meetings.On("UpdateMeeting", mock.Anything, mock.Anything, uint64(4)).Return(nil)
	f.events.On("SendMeetingEvent", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	rec := f.do(http.MethodPut, "/meetings/"+testMeetingUID, creatorToken, `{"title":"Renamed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "If-Match is required")

	rec = f.do(http.MethodPut, "/meetings/"+testMeetingUID, creatorToken, `{"title":"Renamed"}`, "If-Match", "4")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"title":"Renamed"`)
}

func TestAPI_SubmitAvailability(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeeting", mock.Anything, testMeetingUID).Return(futureMeeting(), nil)
	f.availability.On("PutAvailability", mock.Anything, mock.Anything).Return(nil)
	f.availability.On("ListAvailability", mock.Anything, testMeetingUID).Return([]*models.Participant{}, nil)
	f.events.On("SendAnalysisSnapshot", mock.Anything, mock.Anything).Return(nil)

	body := `{"display_name":"Ada","schedule":{"` + slot0930 + `":{"status":"available"}}}`
	rec := f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/availability", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var participant models.Participant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &participant))
	assert.Equal(t, service.AnonymousParticipantID(testMeetingUID, "Ada"), participant.ID)

	rec = f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/availability", creatorToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &participant))
	assert.Equal(t, "creator", participant.ID)

	rec = f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/availability", "Bearer bad", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_SubmitAvailability_RateLimited(t *testing.T) {
	f := newAPIFixture(t, environment{AvailabilityLimit: 0.001, AvailabilityBurst: 1})
	f.meetings.On("GetMeeting", mock.Anything, testMeetingUID).Return(futureMeeting(), nil)
	f.availability.On("PutAvailability", mock.Anything, mock.Anything).Return(nil)
	f.availability.On("ListAvailability", mock.Anything, testMeetingUID).Return([]*models.Participant{}, nil)
	f.events.On("SendAnalysisSnapshot", mock.Anything, mock.Anything).Return(nil)

	body := `{"display_name":"Ada"}`
	rec := f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/availability", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/availability", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are never limited.
	f.meetings.On("MeetingExists", mock.Anything, testMeetingUID).Return(true, nil)
	rec = f.do(http.MethodGet, "/meetings/"+testMeetingUID+"/availability", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_ListAndGetAvailability(t *testing.T) {
	f := newAPIFixture(t, environment{})
	participant := &models.Participant{
		ID:          "p1",
		MeetingUID:  testMeetingUID,
		DisplayName: "Ada",
		Schedule:    map[string]models.Response{slot0930: {Status: models.AvailabilityMaybe}},
	}
	f.meetings.On("MeetingExists", mock.Anything, testMeetingUID).Return(true, nil)
	f.availability.On("ListAvailability", mock.Anything, testMeetingUID).Return([]*models.Participant{participant}, nil)
	f.availability.On("GetAvailability", mock.Anything, testMeetingUID, "p1").Return(participant, nil)

	rec := f.do(http.MethodGet, "/meetings/"+testMeetingUID+"/availability", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ParticipantsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Participants, 1)

	rec = f.do(http.MethodGet, "/meetings/"+testMeetingUID+"/availability/p1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_name":"Ada"`)
}

func TestAPI_AnalysisAndDecision(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeeting", mock.Anything, testMeetingUID).Return(futureMeeting(), nil)
	f.meetings.On("GetMeetingWithRevision", mock.Anything, testMeetingUID).Return(futureMeeting(), uint64(2), nil)
	f.meetings.On("UpdateMeeting", mock.Anything, mock.Anything, uint64(2)).Return(nil)
	f.availability.On("ListAvailability", mock.Anything, testMeetingUID).Return([]*models.Participant{
		{ID: "a", Schedule: map[string]models.Response{slot0930: {Status: models.AvailabilityAvailable}}},
	}, nil)
	f.events.On("SendMeetingConfirmed", mock.Anything, mock.Anything).Return(nil)

	rec := f.do(http.MethodGet, "/meetings/"+testMeetingUID+"/analysis", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis handlers.AnalysisReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	require.Len(t, analysis.Ranked, 1)
	assert.InDelta(t, 100.0, analysis.Ranked[0].Score, 0.001)

	rec = f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/decision", "", `{"mode":"automatic"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/meetings/"+testMeetingUID+"/decision", creatorToken, `{"mode":"automatic"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decision DecisionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, slot0930, decision.Decision.ConfirmedDateTime)
	assert.Equal(t, models.MeetingStatusConfirmed, decision.Meeting.Status)
	assert.Equal(t, 1, decision.Meeting.DecisionsRemaining)
}

func TestAPI_Calendar(t *testing.T) {
	f := newAPIFixture(t, environment{})
	confirmed := futureMeeting()
	confirmed.Status = models.MeetingStatusConfirmed
	confirmed.ConfirmedDateTime = slot0930
	f.meetings.On("GetMeeting", mock.Anything, testMeetingUID).Return(confirmed, nil)
	f.meetings.On("GetMeeting", mock.Anything, "open").Return(futureMeeting(), nil)

	rec := f.do(http.MethodGet, "/meetings/"+testMeetingUID+"/calendar.ics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "DTSTART:20990603T093000Z\r\n")

	rec = f.do(http.MethodGet, "/meetings/open/calendar.ics", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_ListMeetings(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("ListAllMeetings", mock.Anything).Return([]*models.Meeting{futureMeeting()}, nil)

	rec := f.do(http.MethodGet, "/meetings", creatorToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Meetings []json.RawMessage `json:"meetings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Meetings, 1)
}

func TestAPI_InternalErrorsAreMasked(t *testing.T) {
	f := newAPIFixture(t, environment{})
	f.meetings.On("GetMeetingByShareCode", mock.Anything, "abc").Return(nil, errors.New("kv: connection refused"))

	rec := f.do(http.MethodGet, "/meetings/share/abc", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "500", resp.Code)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestIsAvailabilitySubmission(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/meetings/abc/availability", true},
		{http.MethodGet, "/meetings/abc/availability", false},
		{http.MethodPost, "/meetings", false},
		{http.MethodPost, "/meetings/abc/decision", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isAvailabilitySubmission(httptest.NewRequest(tt.method, tt.path, nil)))
		})
	}
}
