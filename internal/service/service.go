// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service holds the meeting poll use cases. Each service validates its
// input, calls the scheduling core and the repositories, and publishes events.
package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/pkg/utils"
)

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// SkipEtagValidation is a flag to skip the Etag validation - only meant for local development.
	SkipEtagValidation bool
	// LFXEnvironment is the environment name for LFX app domain generation.
	LFXEnvironment string
	// AppOrigin overrides the LFX app domain in share links.
	AppOrigin string
	// DefaultTimezone is used when a meeting is created without a timezone.
	DefaultTimezone string
}

// location resolves name, falling back to the configured default and then UTC.
func (c ServiceConfig) location(name string) (*time.Location, error) {
	name = utils.CoalesceString(name, c.DefaultTimezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
