// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// MockMessageBuilder implements MeetingEventSender for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendMeetingEvent(ctx context.Context, action models.MessageAction, meeting *models.Meeting) error {
	args := m.Called(ctx, action, meeting)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendMeetingConfirmed(ctx context.Context, data models.MeetingConfirmedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendAnalysisSnapshot(ctx context.Context, data models.AnalysisSnapshotMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
