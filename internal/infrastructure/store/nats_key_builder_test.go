// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"regexp"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validKVKey = regexp.MustCompile(`^[-/_=.a-zA-Z0-9*>]+$`)

func TestKeyBuilder_EntityKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		uid    string
		want   string
	}{
		{name: "no prefix", uid: "abc-123", want: "meeting/abc-123"},
		{name: "with prefix", prefix: "tenant", uid: "abc-123", want: "tenant/meeting/abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewKeyBuilder(tt.prefix).EntityKey(KeyPrefixMeeting, tt.uid))
		})
	}
}

func TestKeyBuilder_EncodedKeysRoundTrip(t *testing.T) {
	kb := NewKeyBuilder("")

	tests := []struct {
		name    string
		encoded string
		decoded string
	}{
		{
			name:    "entity key",
			encoded: kb.EntityKeyEncoded(KeyPrefixMeeting, "6f1c7a52-3f5e-4a0b-9b1e-2d6f8c1e4a77"),
			decoded: "/meeting/6f1c7a52-3f5e-4a0b-9b1e-2d6f8c1e4a77",
		},
		{
			name:    "participant id with characters base64 would turn into + and /",
			encoded: kb.CompoundKeyEncoded(KeyPrefixAvailability, "m-1", "user?>~~"),
			decoded: "/availability/m-1/user?>~~",
		},
		{
			name:    "unicode display derived id",
			encoded: kb.CompoundKeyEncoded(KeyPrefixAvailability, "m-1", "山田 太郎"),
			decoded: "/availability/m-1/山田 太郎",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, validKVKey, tt.encoded)
			assert.NotContains(t, tt.encoded, "+")
			decoded, err := kb.DecodeKey(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.decoded, decoded)
		})
	}
}

func TestKeyBuilder_ChildrenFilter(t *testing.T) {
	kb := NewKeyBuilder("")

	filter := kb.ChildrenFilter(KeyPrefixAvailability, "m-1")
	child := kb.CompoundKeyEncoded(KeyPrefixAvailability, "m-1", "p-1")
	other := kb.CompoundKeyEncoded(KeyPrefixAvailability, "m-2", "p-1")

	assert.Equal(t, kb.CompoundKeyEncoded(KeyPrefixAvailability, "m-1")+".*", filter)
	assert.True(t, subjectMatches(filter, child))
	assert.False(t, subjectMatches(filter, other))
}

func TestKeyBuilder_EncodeKeyErrors(t *testing.T) {
	kb := NewKeyBuilder("")

	_, err := kb.EncodeKey("")
	assert.ErrorIs(t, err, nats.ErrInvalidKey)

	_, err = kb.EncodeKey("meeting//x")
	assert.ErrorIs(t, err, nats.ErrInvalidKey)

	_, err = kb.DecodeKey("")
	assert.ErrorIs(t, err, nats.ErrInvalidKey)

	_, err = kb.DecodeKey("!!!")
	assert.Error(t, err)
}

func TestKeyBuilder_CompoundKey(t *testing.T) {
	assert.Equal(t, "availability/m-1/p-1", NewKeyBuilder("").CompoundKey(KeyPrefixAvailability, "m-1", "p-1"))
}
