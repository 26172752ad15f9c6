// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Meeting poll constraints
const (
	// MaxTitleLength is the maximum length of a meeting poll title
	MaxTitleLength = 200

	// MaxDisplayNameLength is the maximum length of a participant display name
	MaxDisplayNameLength = 100

	// MaxCommentLength is the maximum length of a per-slot comment
	MaxCommentLength = 500

	// AnonymousParticipantIDLength is the number of hex characters kept from the
	// display name digest when a participant submits without a token
	AnonymousParticipantIDLength = 16

	// ConfirmedEventDurationMinutes is the length of the calendar event exported
	// for a confirmed slot
	ConfirmedEventDurationMinutes = 30
)
