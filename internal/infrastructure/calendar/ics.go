// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package calendar renders confirmed meeting poll slots as iCalendar files.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ICS constants for consistent values across all generated ICS files
const (
	ICSProdID         = "-//Linux Foundation//LFX Meeting Poll Service//EN"
	ICALVersion       = "2.0"
	ICALScale         = "GREGORIAN"
	ICALMaxLineLength = 75

	icsUTCLayout = "20060102T150405Z"
)

// UTF-8 byte masks for line folding safety
const (
	UTF8TwoBitMask         = 0xC0 // Mask to isolate first two bits (11000000)
	UTF8ContinuationPrefix = 0x80 // UTF-8 continuation byte prefix (10000000)
)

// ConfirmedEventParams describes the event exported for a confirmed slot.
type ConfirmedEventParams struct {
	MeetingUID      string
	Title           string
	Description     string
	Reason          string
	Start           time.Time
	DurationMinutes int
	URL             string
	// Sequence is bumped by callers when a meeting is re-confirmed.
	Sequence int
}

// ICSGenerator generates ICS (iCalendar) files
type ICSGenerator struct {
	now func() time.Time
}

// NewICSGenerator creates a new ICS generator
func NewICSGenerator() *ICSGenerator {
	return &ICSGenerator{now: time.Now}
}

// GenerateConfirmedEventICS renders a single-event calendar for the confirmed slot.
// Times are written in UTC so no VTIMEZONE block is needed.
func (g *ICSGenerator) GenerateConfirmedEventICS(params ConfirmedEventParams) (string, error) {
	if params.MeetingUID == "" {
		return "", errors.New("meeting UID is required")
	}
	if params.Start.IsZero() {
		return "", errors.New("confirmed start time is required")
	}
	if params.DurationMinutes <= 0 {
		return "", fmt.Errorf("invalid duration %d", params.DurationMinutes)
	}

	now := time.Now
	if g.now != nil {
		now = g.now
	}

	start := params.Start.UTC()
	end := start.Add(time.Duration(params.DurationMinutes) * time.Minute)

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:"+ICALVersion)
	writeLine(&ics, "PRODID:"+ICSProdID)
	writeLine(&ics, "CALSCALE:"+ICALScale)
	writeLine(&ics, "METHOD:PUBLISH")

	writeLine(&ics, "BEGIN:VEVENT")
	writeLine(&ics, fmt.Sprintf("UID:%s@meeting-polls.lfx.dev", params.MeetingUID))
	writeLine(&ics, "DTSTAMP:"+now().UTC().Format(icsUTCLayout))
	writeLine(&ics, "DTSTART:"+start.Format(icsUTCLayout))
	writeLine(&ics, "DTEND:"+end.Format(icsUTCLayout))
	writeLine(&ics, fmt.Sprintf("SEQUENCE:%d", params.Sequence))
	writeLine(&ics, "SUMMARY:"+escapeICSText(params.Title))
	if description := buildDescription(params); description != "" {
		writeLine(&ics, "DESCRIPTION:"+escapeICSText(description))
	}
	if params.URL != "" {
		writeLine(&ics, "URL:"+params.URL)
	}
	writeLine(&ics, "STATUS:CONFIRMED")
	writeLine(&ics, "TRANSP:OPAQUE")
	writeLine(&ics, "END:VEVENT")

	writeLine(&ics, "END:VCALENDAR")

	return ics.String(), nil
}

func buildDescription(params ConfirmedEventParams) string {
	var parts []string
	if params.Description != "" {
		parts = append(parts, params.Description)
	}
	if params.Reason != "" {
		parts = append(parts, "Why this time: "+params.Reason)
	}
	if params.URL != "" {
		parts = append(parts, "Poll: "+params.URL)
	}
	return strings.Join(parts, "\n\n")
}

// writeLine writes one folded content line terminated by CRLF.
func writeLine(ics *strings.Builder, line string) {
	ics.WriteString(foldICSLine(line, ICALMaxLineLength))
	ics.WriteString("\r\n")
}

// escapeICSText escapes TEXT values according to RFC5545
func escapeICSText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\\n")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, ";", "\\;")
	return text
}

// foldICSLine folds long lines according to RFC5545 (75 octets max)
func foldICSLine(line string, maxLength int) string {
	if len(line) <= maxLength {
		return line
	}

	var folded strings.Builder
	remaining := line
	first := true

	for len(remaining) > 0 {
		cutLength := maxLength
		if !first {
			cutLength = maxLength - 1 // leading space on continued lines
		}

		if len(remaining) <= cutLength {
			if !first {
				folded.WriteString("\r\n ")
			}
			folded.WriteString(remaining)
			break
		}

		// never split inside a UTF-8 sequence
		breakPoint := cutLength
		for breakPoint > 0 && remaining[breakPoint]&UTF8TwoBitMask == UTF8ContinuationPrefix {
			breakPoint--
		}

		if !first {
			folded.WriteString("\r\n ")
		}
		folded.WriteString(remaining[:breakPoint])
		remaining = remaining[breakPoint:]
		first = false
	}

	return folded.String()
}
