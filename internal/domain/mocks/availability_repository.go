// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// MockAvailabilityRepository implements AvailabilityRepository for testing
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) PutAvailability(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetAvailability(ctx context.Context, meetingUID, participantID string) (*models.Participant, error) {
	args := m.Called(ctx, meetingUID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockAvailabilityRepository) ListAvailability(ctx context.Context, meetingUID string) ([]*models.Participant, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}
