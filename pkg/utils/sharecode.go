// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"fmt"

	"github.com/akamensky/base58"
	"github.com/google/uuid"
)

// ShareCode encodes a UUID as a short base58 string suitable for links.
func ShareCode(uid string) (string, error) {
	id, err := uuid.Parse(uid)
	if err != nil {
		return "", fmt.Errorf("invalid uid %q: %w", uid, err)
	}
	return base58.Encode(id[:]), nil
}

// UIDFromShareCode reverses ShareCode.
func UIDFromShareCode(code string) (string, error) {
	raw, err := base58.Decode(code)
	if err != nil {
		return "", fmt.Errorf("invalid share code %q: %w", code, err)
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("invalid share code %q: %w", code, err)
	}
	return id.String(), nil
}
