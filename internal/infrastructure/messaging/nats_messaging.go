// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/constants"
)

// INatsConn is the subset of a NATS connection the [MessageBuilder] needs.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

var _ domain.MeetingEventSender = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// publish sends the message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject, "size", len(data))
	return nil
}

// eventHeaders forwards the caller's identity to event consumers. Events raised
// without a request context (anonymous submissions) carry no principal.
func eventHeaders(ctx context.Context) map[string]string {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok && authorization != "" {
		headers[constants.AuthorizationHeader] = authorization
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok && principal != "" {
		headers[constants.XOnBehalfOfHeader] = principal
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func (m *MessageBuilder) publishJSON(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}
	return m.publish(ctx, subject, data)
}

// SendMeetingEvent publishes a meeting created or updated event.
func (m *MessageBuilder) SendMeetingEvent(ctx context.Context, action models.MessageAction, meeting *models.Meeting) error {
	var subject string
	switch action {
	case models.ActionCreated:
		subject = models.MeetingCreatedSubject
	case models.ActionUpdated:
		subject = models.MeetingUpdatedSubject
	default:
		slog.WarnContext(ctx, "unsupported meeting event action", "action", action)
		return domain.NewValidationError("unsupported meeting event action: " + string(action))
	}

	return m.publishJSON(ctx, subject, models.MeetingEventMessage{
		Action:  action,
		Headers: eventHeaders(ctx),
		Meeting: meeting,
	})
}

// SendMeetingConfirmed publishes the confirmation of a slot.
func (m *MessageBuilder) SendMeetingConfirmed(ctx context.Context, data models.MeetingConfirmedMessage) error {
	if data.Headers == nil {
		data.Headers = eventHeaders(ctx)
	}
	return m.publishJSON(ctx, models.MeetingConfirmedSubject, data)
}

// SendAnalysisSnapshot publishes the ranked analysis as msgpack.
func (m *MessageBuilder) SendAnalysisSnapshot(ctx context.Context, data models.AnalysisSnapshotMessage) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling analysis snapshot into msgpack", logging.ErrKey, err,
			"meeting_uid", data.MeetingUID,
		)
		return err
	}

	slog.DebugContext(ctx, "publishing analysis snapshot",
		"meeting_uid", data.MeetingUID,
		"participants", data.Participants,
		"slots", len(data.Ranked),
	)

	return m.publish(ctx, models.AnalysisUpdatedSubject, payload)
}
