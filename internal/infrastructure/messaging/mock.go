// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/stretchr/testify/mock"
)

// MockNATSConn is a testify mock of [INatsConn].
type MockNATSConn struct {
	mock.Mock
}

// IsConnected is a mock method.
func (m *MockNATSConn) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

// Publish is a mock method.
func (m *MockNATSConn) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}
