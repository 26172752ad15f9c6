// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package scheduling aggregates participant availability into ranked candidate
// slots and produces the decision that confirms one of them.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/logging"
)

// SlotKeyLayout is the canonical slot key format: a UTC instant with millisecond precision.
const SlotKeyLayout = "2006-01-02T15:04:05.000Z"

// Layouts accepted when parsing a slot string, tried in order. Layouts without a
// zone are interpreted in the normalizer's location.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	time.RFC1123Z,
	time.RFC1123,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var errUnrecognisedSlot = errors.New("unrecognised slot representation")

// FormatSlotKey renders t as a canonical slot key.
func FormatSlotKey(t time.Time) string {
	return t.UTC().Format(SlotKeyLayout)
}

// Normalizer turns any accepted slot representation into a canonical slot key.
// It never fails: unparseable values are logged and mapped to a fallback key
// taken from its clock.
type Normalizer struct {
	now      func() time.Time
	location *time.Location
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock sets the clock used for fallback keys.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation sets the location used for zone-less date strings.
func WithLocation(loc *time.Location) NormalizerOption {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// NewNormalizer creates a Normalizer using the wall clock and UTC by default.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{now: time.Now, location: time.UTC}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeSlot returns the canonical key for v. ok is false when the fallback
// key was used.
func (n *Normalizer) NormalizeSlot(ctx context.Context, v models.SlotValue) (key string, ok bool) {
	return n.normalizeSlot(ctx, v, n.now())
}

// normalizeSlot resolves v in priority order: date accessor, native time,
// string, wrapped key.
func (n *Normalizer) normalizeSlot(ctx context.Context, v models.SlotValue, fallback time.Time) (string, bool) {
	t, err := n.slotTime(v)
	if err != nil {
		slog.WarnContext(ctx, "slot could not be normalized, using fallback key",
			logging.ErrKey, err,
			"slot_kind", slotKind(v),
			"fallback_key", FormatSlotKey(fallback),
		)
		return FormatSlotKey(fallback), false
	}
	return FormatSlotKey(t), true
}

// SlotTime returns the instant a slot represents.
func (n *Normalizer) SlotTime(v models.SlotValue) (time.Time, error) {
	return n.slotTime(v)
}

func (n *Normalizer) slotTime(v models.SlotValue) (time.Time, error) {
	switch s := v.(type) {
	case models.LazySlot:
		if s.Converter == nil {
			return time.Time{}, errUnrecognisedSlot
		}
		return s.Converter.ToDate()
	case models.NativeSlot:
		t := time.Time(s)
		if t.IsZero() {
			return time.Time{}, errors.New("zero time")
		}
		return t, nil
	case models.CanonicalSlot:
		return n.ParseTime(string(s))
	case models.WrappedSlot:
		return n.ParseTime(s.Key)
	default:
		return time.Time{}, errUnrecognisedSlot
	}
}

// ParseTime parses a date string in any accepted layout.
func (n *Normalizer) ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date string")
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, n.location); err == nil {
			return t, nil
		}
	}
	// A bare date is a UTC midnight.
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// NormalizeKey canonicalises a participant response key. Keys that do not parse
// are returned unchanged so they can still match an identical candidate key.
func (n *Normalizer) NormalizeKey(key string) string {
	t, err := n.ParseTime(key)
	if err != nil {
		return key
	}
	return FormatSlotKey(t)
}

func slotKind(v models.SlotValue) models.SlotKind {
	if v == nil {
		return models.SlotKindInvalid
	}
	return v.Kind()
}
