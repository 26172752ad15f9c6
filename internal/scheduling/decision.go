// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// checkDecisionAllowed enforces the preconditions shared by both decision paths.
func checkDecisionAllowed(meeting *models.Meeting, actingUserID string) error {
	if meeting == nil {
		return domain.NewValidationError("meeting is required")
	}
	if actingUserID == "" || actingUserID != meeting.CreatorID {
		return domain.NewForbiddenError("cannot decide meeting time", domain.ErrUnauthorized)
	}
	if meeting.Status != models.MeetingStatusScheduling {
		return domain.NewConflictError("meeting is not accepting decisions: status is " + string(meeting.Status))
	}
	return nil
}

// DecideAutomatically confirms the highest-ranked slot. It fails with
// ErrNoEligibleSlot when there is nothing to rank, nobody answered for any
// slot, or the top slot only has a fallback key.
func DecideAutomatically(meeting *models.Meeting, actingUserID string, analyses []models.SlotAnalysis, explainer Explainer) (*models.Decision, error) {
	if err := checkDecisionAllowed(meeting, actingUserID); err != nil {
		return nil, err
	}

	ranked := Rank(analyses)
	if len(ranked) == 0 {
		return nil, domain.NewValidationError("meeting has no candidate slots", domain.ErrNoEligibleSlot)
	}
	answered := false
	for _, analysis := range ranked {
		if analysis.HasResponses() {
			answered = true
			break
		}
	}
	if !answered {
		return nil, domain.NewValidationError("no participant has responded", domain.ErrNoEligibleSlot)
	}

	top := ranked[0]
	if !top.KeyValid {
		return nil, domain.NewValidationError("top ranked slot has no valid key", domain.ErrNoEligibleSlot)
	}

	return &models.Decision{
		Status:            models.MeetingStatusConfirmed,
		ConfirmedDateTime: top.SlotKey,
		ConfirmedReason:   explainer.Explain(top, ranked),
		Mode:              models.DecisionModeAutomatic,
	}, nil
}

// DecideManually confirms the slot the creator chose. slotKey must name one of
// the analysed candidate slots.
func DecideManually(meeting *models.Meeting, actingUserID string, analyses []models.SlotAnalysis, slotKey string) (*models.Decision, error) {
	if err := checkDecisionAllowed(meeting, actingUserID); err != nil {
		return nil, err
	}
	if slotKey == "" {
		return nil, domain.NewValidationError("slot key is required for a manual decision")
	}

	for _, analysis := range analyses {
		if !analysis.KeyValid || analysis.SlotKey != slotKey {
			continue
		}
		return &models.Decision{
			Status:            models.MeetingStatusConfirmed,
			ConfirmedDateTime: analysis.SlotKey,
			ConfirmedReason:   ManualReason(analysis),
			Mode:              models.DecisionModeManual,
		}, nil
	}

	return nil, domain.NewValidationError("slot key is not one of the meeting's candidate slots")
}
