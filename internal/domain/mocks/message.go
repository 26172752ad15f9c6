// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMessage is a NATS request for the meeting poll handlers. Every payload
// passed to Respond is kept in Replies.
type MockMessage struct {
	mock.Mock
	data    []byte
	subject string

	Replies [][]byte
}

func (m *MockMessage) Subject() string {
	return m.subject
}

func (m *MockMessage) Data() []byte {
	return m.data
}

func (m *MockMessage) HasReply() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessage) Respond(data []byte) error {
	m.Replies = append(m.Replies, data)
	args := m.Called(data)
	return args.Error(0)
}

// ExpectReply marks the request as awaiting a reply and expects exactly one
// Respond call with payload.
func (m *MockMessage) ExpectReply(payload []byte) *MockMessage {
	m.On("HasReply").Return(true)
	m.On("Respond", payload).Return(nil).Once()
	return m
}

// ExpectAnyReply is ExpectReply for payloads the test decodes from Replies.
func (m *MockMessage) ExpectAnyReply() *MockMessage {
	m.On("HasReply").Return(true)
	m.On("Respond", mock.Anything).Return(nil).Once()
	return m
}

// ExpectNoReply marks the request as fire-and-forget.
func (m *MockMessage) ExpectNoReply() *MockMessage {
	m.On("HasReply").Return(false)
	return m
}

// LastReply returns the most recent payload sent with Respond.
func (m *MockMessage) LastReply() []byte {
	if len(m.Replies) == 0 {
		return nil
	}
	return m.Replies[len(m.Replies)-1]
}

// NewMockMessage creates a mock message for testing
func NewMockMessage(data []byte, subject string) *MockMessage {
	return &MockMessage{
		data:    data,
		subject: subject,
	}
}

// NewMockPollRequest creates a request carrying a meeting UID on subject.
func NewMockPollRequest(subject, meetingUID string) *MockMessage {
	return NewMockMessage([]byte(meetingUID), subject)
}
