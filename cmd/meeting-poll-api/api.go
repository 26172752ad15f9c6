// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
)

// MeetingPollsAPI serves the meeting poll HTTP routes.
type MeetingPollsAPI struct {
	authService         *service.AuthService
	meetingPollService  *service.MeetingPollService
	availabilityService *service.AvailabilityService
	analysisService     *service.AnalysisService
	meetingPollHandler  *handlers.MeetingPollHandler

	vars func(*http.Request) map[string]string
}

// NewMeetingPollsAPI creates a new MeetingPollsAPI.
func NewMeetingPollsAPI(
	authService *service.AuthService,
	meetingPollService *service.MeetingPollService,
	availabilityService *service.AvailabilityService,
	analysisService *service.AnalysisService,
	meetingPollHandler *handlers.MeetingPollHandler,
) *MeetingPollsAPI {
	return &MeetingPollsAPI{
		authService:         authService,
		meetingPollService:  meetingPollService,
		availabilityService: availabilityService,
		analysisService:     analysisService,
		meetingPollHandler:  meetingPollHandler,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Mount registers the API routes on the muxer.
func (s *MeetingPollsAPI) Mount(mux goahttp.Muxer) {
	s.vars = mux.Vars

	mux.Handle(http.MethodGet, "/livez", s.Livez)
	mux.Handle(http.MethodGet, "/readyz", s.Readyz)

	mux.Handle(http.MethodGet, "/meetings", s.ListMeetings)
	mux.Handle(http.MethodPost, "/meetings", s.CreateMeeting)
	mux.Handle(http.MethodGet, "/meetings/share/{code}", s.GetMeetingByShareCode)
	mux.Handle(http.MethodGet, "/meetings/{uid}", s.GetMeeting)
	mux.Handle(http.MethodPut, "/meetings/{uid}", s.UpdateMeeting)
	mux.Handle(http.MethodGet, "/meetings/{uid}/calendar.ics", s.GetCalendar)

	mux.Handle(http.MethodPost, "/meetings/{uid}/availability", s.SubmitAvailability)
	mux.Handle(http.MethodGet, "/meetings/{uid}/availability", s.ListAvailability)
	mux.Handle(http.MethodGet, "/meetings/{uid}/availability/{participant_id}", s.GetAvailability)

	mux.Handle(http.MethodGet, "/meetings/{uid}/analysis", s.GetAnalysis)
	mux.Handle(http.MethodPost, "/meetings/{uid}/decision", s.Decide)
}

// ServiceReady reports whether every service behind the API can take requests.
func (s *MeetingPollsAPI) ServiceReady() bool {
	return s.authService.ServiceReady() &&
		s.meetingPollService.ServiceReady() &&
		s.availabilityService.ServiceReady() &&
		s.analysisService.ServiceReady() &&
		s.meetingPollHandler.HandlerReady()
}

// Readyz checks if the service is able to take inbound requests.
func (s *MeetingPollsAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	if !s.ServiceReady() {
		s.handleError(r.Context(), w, domain.NewUnavailableError("service not ready", domain.ErrServiceUnavailable))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (s *MeetingPollsAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// pathParam returns a route variable of the request.
func (s *MeetingPollsAPI) pathParam(r *http.Request, name string) string {
	if s.vars == nil {
		return ""
	}
	return s.vars(r)[name]
}

// statusCode maps a domain error onto its HTTP status.
func statusCode(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as an ErrorResponse. Internal error details are not
// sent to the client.
func (s *MeetingPollsAPI) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	code := statusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
		message = "internal server error"
	}

	s.writeJSON(ctx, w, code, &ErrorResponse{
		Code:    strconv.Itoa(code),
		Message: message,
	})
}

// writeJSON encodes body with the goa response encoder.
func (s *MeetingPollsAPI) writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := goahttp.ResponseEncoder(ctx, w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
	}
}

// decodeBody decodes the JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	err := goahttp.RequestDecoder(r).Decode(v)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("request body is required")
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.NewValidationError("request body is too large", err)
	}
	return domain.NewValidationError("invalid request body", err)
}

// withPrincipal stores the principal in the context so that published events
// carry it, and adds it to the log attributes.
func withPrincipal(ctx context.Context, principal string) context.Context {
	if principal == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
	return logging.AppendCtx(ctx, slog.String("principal", principal))
}

// requirePrincipal parses the bearer token of the request.
func (s *MeetingPollsAPI) requirePrincipal(r *http.Request) (context.Context, string, error) {
	ctx := r.Context()
	principal, err := s.authService.ParsePrincipal(ctx, r.Header.Get(constants.AuthorizationHeader), slog.Default())
	if err != nil {
		slog.WarnContext(ctx, "failed to parse principal from JWT token", logging.ErrKey, err)
		return ctx, "", err
	}
	return withPrincipal(ctx, principal), principal, nil
}

// optionalPrincipal is requirePrincipal for routes that also accept anonymous callers.
func (s *MeetingPollsAPI) optionalPrincipal(r *http.Request) (context.Context, string, error) {
	ctx := r.Context()
	principal, err := s.authService.ParseOptionalPrincipal(ctx, r.Header.Get(constants.AuthorizationHeader), slog.Default())
	if err != nil {
		slog.WarnContext(ctx, "failed to parse principal from JWT token", logging.ErrKey, err)
		return ctx, "", err
	}
	return withPrincipal(ctx, principal), principal, nil
}
