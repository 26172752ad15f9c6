// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/linuxfoundation/lfx-v2-meeting-poll-service/internal/domain"
)

// SlotInterval is the spacing between generated candidate slots.
const SlotInterval = 30 * time.Minute

// GenerateTimeSlots expands the calendar days from startDate through endDate
// (inclusive) into slots every SlotInterval within [startTime, endTime) of each
// day, in loc. Days are stepped by calendar date so DST changes do not shift the
// daily window. A window with startTime >= endTime yields no slots.
func GenerateTimeSlots(startDate, endDate time.Time, startTime, endTime string, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	startMinutes, err := parseClock(startTime)
	if err != nil {
		return nil, domain.NewValidationError("invalid start time", err)
	}
	endMinutes, err := parseClock(endTime)
	if err != nil {
		return nil, domain.NewValidationError("invalid end time", err)
	}

	first := calendarDay(startDate, loc)
	last := calendarDay(endDate, loc)
	if last.Before(first) || startMinutes >= endMinutes {
		return []time.Time{}, nil
	}

	days, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: 1,
		Dtstart:  first,
		Until:    last,
	})
	if err != nil {
		return nil, domain.NewValidationError("invalid date range", err)
	}

	var slots []time.Time
	for _, day := range days.All() {
		year, month, date := day.In(loc).Date()
		slot := time.Date(year, month, date, startMinutes/60, startMinutes%60, 0, 0, loc)
		dayEnd := time.Date(year, month, date, endMinutes/60, endMinutes%60, 0, 0, loc)
		for slot.Before(dayEnd) {
			slots = append(slots, slot)
			slot = slot.Add(SlotInterval)
		}
	}
	if slots == nil {
		slots = []time.Time{}
	}
	return slots, nil
}

// SlotCount returns the number of slots generated per day for a daily window.
func SlotCount(startTime, endTime string) (int, error) {
	startMinutes, err := parseClock(startTime)
	if err != nil {
		return 0, domain.NewValidationError("invalid start time", err)
	}
	endMinutes, err := parseClock(endTime)
	if err != nil {
		return 0, domain.NewValidationError("invalid end time", err)
	}
	if startMinutes >= endMinutes {
		return 0, nil
	}
	step := int(SlotInterval / time.Minute)
	return (endMinutes - startMinutes + step - 1) / step, nil
}

// calendarDay returns local midnight of t's calendar date.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// parseClock parses "HH:MM" into minutes after midnight.
func parseClock(value string) (int, error) {
	hh, mm, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || len(hh) == 0 || len(hh) > 2 || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}
