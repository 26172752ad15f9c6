// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"context"
	"slices"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// Score tallies the responses for every candidate slot, in candidate order.
// Available counts double and maybe counts once against two points per
// participant; participants without any answer still dilute the score. With no
// participants every score is 0.
//
// The fallback key for unparseable slots is read from the clock once, so all
// failures in one pass share the same key and are marked KeyValid=false.
func (n *Normalizer) Score(ctx context.Context, slots models.SlotList, participants []*models.Participant) []models.SlotAnalysis {
	fallback := n.now()

	schedules := make([]map[string]models.Response, 0, len(participants))
	for _, p := range participants {
		if p == nil {
			continue
		}
		schedules = append(schedules, n.indexSchedule(p.Schedule))
	}
	total := len(schedules)

	analyses := make([]models.SlotAnalysis, 0, len(slots))
	for _, slot := range slots {
		key, ok := n.normalizeSlot(ctx, slot, fallback)
		analysis := models.SlotAnalysis{
			SlotKey:           key,
			DateTime:          fallback.UTC(),
			TotalParticipants: total,
			KeyValid:          ok,
		}
		if ok {
			if t, err := n.slotTime(slot); err == nil {
				analysis.DateTime = t.UTC()
			}
		}

		for _, schedule := range schedules {
			response, answered := schedule[key]
			if !answered {
				continue
			}
			switch response.Status {
			case models.AvailabilityAvailable:
				analysis.AvailableCount++
			case models.AvailabilityMaybe:
				analysis.MaybeCount++
			case models.AvailabilityUnavailable:
				analysis.UnavailableCount++
			}
		}

		analysis.Score = computeScore(analysis.AvailableCount, analysis.MaybeCount, total)
		analyses = append(analyses, analysis)
	}
	return analyses
}

// Score scores slots with a Normalizer using the wall clock and UTC.
func Score(ctx context.Context, slots models.SlotList, participants []*models.Participant) []models.SlotAnalysis {
	return NewNormalizer().Score(ctx, slots, participants)
}

func computeScore(available, maybe, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(available*2+maybe) / float64(total*2) * 100
}

// indexSchedule re-keys a participant's schedule by canonical slot key. Keys are
// visited in sorted order so that when two raw keys name the same instant the
// result does not depend on map iteration.
func (n *Normalizer) indexSchedule(schedule map[string]models.Response) map[string]models.Response {
	keys := make([]string, 0, len(schedule))
	for key := range schedule {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	indexed := make(map[string]models.Response, len(schedule))
	for _, key := range keys {
		canonical := n.NormalizeKey(key)
		if _, exists := indexed[canonical]; exists {
			continue
		}
		indexed[canonical] = schedule[key]
	}
	return indexed
}
