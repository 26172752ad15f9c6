// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// SlotKind identifies which representation a SlotValue carries.
type SlotKind string

const (
	// SlotKindCanonical is an ISO-8601 string, normally already the slot key.
	SlotKindCanonical SlotKind = "canonical"
	// SlotKindLazy is a value that converts itself to a date on demand.
	SlotKindLazy SlotKind = "lazy"
	// SlotKindNative is a time.Time.
	SlotKindNative SlotKind = "native"
	// SlotKindWrapped is an object carrying the key in a "key" field.
	SlotKindWrapped SlotKind = "wrapped"
	// SlotKindInvalid is any shape that could not be recognised.
	SlotKindInvalid SlotKind = "invalid"
)

// SlotValue is one candidate slot in any of the accepted representations.
// The set of implementations is closed: CanonicalSlot, LazySlot, NativeSlot,
// WrappedSlot and InvalidSlot.
type SlotValue interface {
	Kind() SlotKind
	isSlotValue()
}

// DateConverter is implemented by values that know how to turn themselves into a time.
type DateConverter interface {
	ToDate() (time.Time, error)
}

// CanonicalSlot is a slot already serialized as a string.
type CanonicalSlot string

// Kind implements SlotValue.
func (CanonicalSlot) Kind() SlotKind { return SlotKindCanonical }
func (CanonicalSlot) isSlotValue()   {}

// NativeSlot wraps a time value.
type NativeSlot time.Time

// Kind implements SlotValue.
func (NativeSlot) Kind() SlotKind { return SlotKindNative }
func (NativeSlot) isSlotValue()   {}

// WrappedSlot carries the slot under a "key" field.
type WrappedSlot struct {
	Key string `json:"key"`
}

// Kind implements SlotValue.
func (WrappedSlot) Kind() SlotKind { return SlotKindWrapped }
func (WrappedSlot) isSlotValue()   {}

// LazySlot defers date conversion to its Converter. Stored timestamps in the
// {seconds, nanoseconds} shape decode to a LazySlot backed by a Timestamp.
type LazySlot struct {
	Converter DateConverter
}

// Kind implements SlotValue.
func (LazySlot) Kind() SlotKind { return SlotKindLazy }
func (LazySlot) isSlotValue()   {}

// InvalidSlot keeps the raw bytes of an unrecognised slot so it can be logged.
type InvalidSlot struct {
	Raw json.RawMessage
}

// Kind implements SlotValue.
func (InvalidSlot) Kind() SlotKind { return SlotKindInvalid }
func (InvalidSlot) isSlotValue()   {}

// Timestamp is a seconds/nanoseconds pair as written by document stores.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// ToDate implements DateConverter.
func (t Timestamp) ToDate() (time.Time, error) {
	if t.Nanoseconds < 0 || t.Nanoseconds >= int64(time.Second) {
		return time.Time{}, fmt.Errorf("timestamp nanoseconds out of range: %d", t.Nanoseconds)
	}
	return time.Unix(t.Seconds, t.Nanoseconds).UTC(), nil
}

// SlotList is an ordered list of candidate slots with explicit JSON variant handling.
type SlotList []SlotValue

// CanonicalSlots builds a SlotList of canonical keys.
func CanonicalSlots(keys ...string) SlotList {
	slots := make(SlotList, 0, len(keys))
	for _, key := range keys {
		slots = append(slots, CanonicalSlot(key))
	}
	return slots
}

// MarshalJSON writes canonical and wrapped slots in their own shape, native times as
// RFC 3339 strings and lazy timestamps as {seconds, nanoseconds}. Lazy slots
// without a usable date are written as null.
func (l SlotList) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(l))
	for _, slot := range l {
		switch v := slot.(type) {
		case CanonicalSlot:
			out = append(out, string(v))
		case NativeSlot:
			out = append(out, time.Time(v).UTC().Format(time.RFC3339Nano))
		case WrappedSlot:
			out = append(out, v)
		case LazySlot:
			if ts, ok := v.Converter.(Timestamp); ok {
				out = append(out, ts)
				continue
			}
			// A lazy slot that cannot produce a date is written as null and
			// reads back as an InvalidSlot.
			if v.Converter == nil {
				out = append(out, nil)
				continue
			}
			converted, err := v.Converter.ToDate()
			if err != nil {
				out = append(out, nil)
				continue
			}
			out = append(out, converted.UTC().Format(time.RFC3339Nano))
		case InvalidSlot:
			out = append(out, v.Raw)
		case nil:
			out = append(out, nil)
		default:
			return nil, fmt.Errorf("unsupported slot value %T", slot)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes each element into the matching SlotValue variant.
func (l *SlotList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	slots := make(SlotList, 0, len(raw))
	for _, item := range raw {
		slots = append(slots, decodeSlotValue(item))
	}
	*l = slots
	return nil
}

// decodeSlotValue never fails: shapes it cannot classify become InvalidSlot.
func decodeSlotValue(item json.RawMessage) SlotValue {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 {
		return InvalidSlot{Raw: item}
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return InvalidSlot{Raw: item}
		}
		return CanonicalSlot(s)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return InvalidSlot{Raw: item}
		}
		if rawKey, ok := fields["key"]; ok {
			var key string
			if err := json.Unmarshal(rawKey, &key); err == nil {
				return WrappedSlot{Key: key}
			}
			return InvalidSlot{Raw: item}
		}
		if _, ok := fields["seconds"]; ok {
			var ts Timestamp
			if err := json.Unmarshal(trimmed, &ts); err == nil {
				return LazySlot{Converter: ts}
			}
		}
	}

	return InvalidSlot{Raw: item}
}
