// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import "strings"

// CoalesceString returns the first value that is not blank, trimmed. Env
// settings and meeting timezones padded with spaces fall through to the
// next value instead of reaching time.LoadLocation.
func CoalesceString(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
