// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"cmp"
	"slices"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
)

// Rank returns a copy of analyses sorted by score, highest first. Equal scores
// keep their input order.
func Rank(analyses []models.SlotAnalysis) []models.SlotAnalysis {
	ranked := slices.Clone(analyses)
	if ranked == nil {
		ranked = []models.SlotAnalysis{}
	}
	slices.SortStableFunc(ranked, func(a, b models.SlotAnalysis) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}
