// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

const (
	testMeetingUID = "8a0f6c1e-3b7d-4c52-9e1a-2f4d6b8c0a11"
	testCreator    = "creator"
	slot0900       = "2024-06-03T09:00:00.000Z"
	slot0930       = "2024-06-03T09:30:00.000Z"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type serviceMocks struct {
	meetings     *mocks.MockMeetingRepository
	availability *mocks.MockAvailabilityRepository
	events       *mocks.MockMessageBuilder
}

func newServiceMocks() serviceMocks {
	return serviceMocks{
		meetings:     &mocks.MockMeetingRepository{},
		availability: &mocks.MockAvailabilityRepository{},
		events:       &mocks.MockMessageBuilder{},
	}
}

func (m serviceMocks) analysisService() *AnalysisService {
	s := NewAnalysisService(m.meetings, m.availability, m.events, ServiceConfig{})
	s.now = fixedNow
	return s
}

func (m serviceMocks) availabilityService() *AvailabilityService {
	s := NewAvailabilityService(m.meetings, m.availability, m.analysisService())
	s.now = fixedNow
	return s
}

func (m serviceMocks) meetingPollService(config ServiceConfig) *MeetingPollService {
	s := NewMeetingPollService(m.meetings, m.events, nil, config)
	s.now = fixedNow
	return s
}

func schedulingMeeting() *models.Meeting {
	return &models.Meeting{
		UID:                testMeetingUID,
		Title:              "Release planning",
		CandidateSlots:     models.CanonicalSlots(slot0900, slot0930),
		CreatorID:          testCreator,
		Status:             models.MeetingStatusScheduling,
		DecisionsRemaining: models.DefaultDecisionsRemaining,
	}
}

func answers(id string, schedule map[string]models.AvailabilityStatus) *models.Participant {
	p := &models.Participant{ID: id, MeetingUID: testMeetingUID, DisplayName: id, Schedule: map[string]models.Response{}}
	for key, status := range schedule {
		p.Schedule[key] = models.Response{Status: status}
	}
	return p
}
