// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
)

// Key prefixes
const (
	KeyPrefixMeeting      = "meeting"
	KeyPrefixAvailability = "availability"
)

// keyEncoding only produces characters NATS accepts in KV key tokens.
var keyEncoding = base64.RawURLEncoding

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds a key for an entity (e.g., "meeting/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid), false)
}

// EntityKeyEncoded builds an encoded key for an entity
func (kb *KeyBuilder) EntityKeyEncoded(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid), true)
}

// CompoundKey builds a compound key from multiple parts
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	return kb.applyPrefix(strings.Join(parts, "/"), false)
}

// CompoundKeyEncoded builds an encoded compound key (e.g. availability/meeting/participant)
func (kb *KeyBuilder) CompoundKeyEncoded(parts ...string) string {
	return kb.applyPrefix(strings.Join(parts, "/"), true)
}

// ChildrenFilter builds a subject filter matching the encoded keys exactly one
// level below the given parts.
func (kb *KeyBuilder) ChildrenFilter(parts ...string) string {
	return kb.applyPrefix(strings.Join(append(parts, "*"), "/"), true)
}

// applyPrefix adds the builder's prefix if one is set
func (kb *KeyBuilder) applyPrefix(key string, encode bool) string {
	fullKey := key
	if kb.prefix != "" {
		fullKey = fmt.Sprintf("%s/%s", kb.prefix, key)
	}

	if !encode {
		return fullKey
	}
	encodedKey, err := kb.EncodeKey(fullKey)
	if err != nil {
		slog.Error("error encoding key", logging.ErrKey, err, "key", fullKey)
		return fullKey
	}
	return encodedKey
}

// EncodeKey encodes every "/" separated part of key so arbitrary identifiers can
// be used as NATS KV key tokens. Wildcards are kept as-is.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	trimmed := strings.TrimPrefix(key, "/")
	if trimmed == "" {
		return "", nats.ErrInvalidKey
	}

	parts := strings.Split(trimmed, "/")
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}
		if part == "" {
			return "", nats.ErrInvalidKey
		}
		res = append(res, keyEncoding.EncodeToString([]byte(part)))
	}

	return strings.Join(res, "."), nil
}

// DecodeKey reverses EncodeKey, returning the key with a leading "/".
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	if key == "" {
		return "", nats.ErrInvalidKey
	}

	parts := strings.Split(key, ".")
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		k, err := keyEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}
		res = append(res, string(k))
	}

	return "/" + strings.Join(res, "/"), nil
}
