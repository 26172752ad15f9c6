// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

const (
	// AlternativeScoreThreshold is the score an alternative must exceed to be mentioned.
	AlternativeScoreThreshold = 20.0
	// maxAlternatives is the number of ranked positions after the top one considered.
	maxAlternatives = 2
	// AlternativeTimeLayout is the default rendering of alternative slots: the
	// en-US short date and 12-hour time.
	AlternativeTimeLayout = "1/2/2006, 3:04:05 PM"
)

// Explainer writes the justification for an automatically chosen slot.
// Alternative times are rendered in Location with Layout, which defaults to
// the fixed en-US AlternativeTimeLayout.
type Explainer struct {
	// Location is used to render alternative times. Nil means UTC.
	Location *time.Location
	// Layout is the time layout for alternative times. Empty means AlternativeTimeLayout.
	Layout string
}

// Explain builds the reason for confirming top, given the full ranked list.
func (e Explainer) Explain(top models.SlotAnalysis, ranked []models.SlotAnalysis) string {
	var reason strings.Builder

	fmt.Fprintf(&reason, "AI Analysis: This time slot has the highest compatibility score (%.1f%%). ", top.Score)

	switch {
	case top.TotalParticipants > 0 && top.AvailableCount == top.TotalParticipants:
		fmt.Fprintf(&reason, "All %d participants marked this time as available. ", top.TotalParticipants)
	case top.AvailableCount*2 > top.TotalParticipants:
		fmt.Fprintf(&reason, "%d out of %d participants are available, ", top.AvailableCount, top.TotalParticipants)
		if top.MaybeCount > 0 {
			fmt.Fprintf(&reason, "with %d additional participants marking it as 'maybe'. ", top.MaybeCount)
		}
	default:
		fmt.Fprintf(&reason, "While only %d participants are definitely available, ", top.AvailableCount)
		if top.MaybeCount > 0 {
			fmt.Fprintf(&reason, "%d more marked it as 'maybe', ", top.MaybeCount)
		}
		reason.WriteString("making it the best compromise among all options. ")
	}

	if alternatives := e.alternatives(ranked); len(alternatives) > 0 {
		fmt.Fprintf(&reason, "Alternative times considered include %s.", strings.Join(alternatives, " and "))
	}

	return reason.String()
}

// alternatives renders ranked positions two and three when they score above the threshold.
func (e Explainer) alternatives(ranked []models.SlotAnalysis) []string {
	if len(ranked) < 2 {
		return nil
	}
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := e.Layout
	if layout == "" {
		layout = AlternativeTimeLayout
	}

	candidates := ranked[1:min(len(ranked), 1+maxAlternatives)]
	var out []string
	for _, slot := range candidates {
		if slot.Score > AlternativeScoreThreshold {
			out = append(out, slot.DateTime.In(loc).Format(layout))
		}
	}
	return out
}

// ManualReason is the fixed reason recorded when the creator picks a slot.
func ManualReason(slot models.SlotAnalysis) string {
	return fmt.Sprintf("Manually selected by meeting organizer. %d participants available, %d maybe available.",
		slot.AvailableCount, slot.MaybeCount)
}
