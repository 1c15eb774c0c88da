package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FrequencyType describes how often a habit is meant to be done.
type FrequencyType string

// Frequency types.
const (
	FrequencyDaily        FrequencyType = "DAILY"
	FrequencyWeeklyTimes  FrequencyType = "WEEKLY_TIMES"
	FrequencySpecificDays FrequencyType = "SPECIFIC_DAYS"
)

// Bounds for habit frequency configuration.
const (
	MinWeeklyTarget = 1
	MaxWeeklyTarget = 7
	DaysPerWeek     = 7
)

// DateLayout is the calendar-date format used for date keys.
const DateLayout = "2006-01-02"

// IsValid returns true if the frequency type is known.
func (f FrequencyType) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeeklyTimes, FrequencySpecificDays:
		return true
	}
	return false
}

// ParseFrequencyType parses a frequency type. It accepts the wire names
// and the short forms daily, weekly and days.
func ParseFrequencyType(s string) (FrequencyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return FrequencyDaily, nil
	case "weekly", "weekly_times", "weekly-times":
		return FrequencyWeeklyTimes, nil
	case "days", "specific_days", "specific-days":
		return FrequencySpecificDays, nil
	}
	return "", NewValidationError("frequency_type", fmt.Sprintf("unknown frequency %q (want daily, weekly or days)", s))
}

var weekdayNames = [DaysPerWeek]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// WeekdayIndex returns the weekday of t with Monday as 0 and Sunday as 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysPerWeek
}

// WeekdayName returns the three-letter name of a weekday index, or "?" if out of range.
func WeekdayName(idx int) string {
	if idx < 0 || idx >= DaysPerWeek {
		return "?"
	}
	return weekdayNames[idx]
}

// ParseWeekday parses a weekday name ("mon", "Monday") or index ("0").
func ParseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= DaysPerWeek {
			return 0, NewValidationError("frequency_days", fmt.Sprintf("day index %d out of range 0-6", n))
		}
		return n, nil
	}
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(s, name) {
				return i, nil
			}
		}
	}
	return 0, NewValidationError("frequency_days", fmt.Sprintf("unknown weekday %q", s))
}

// ParseWeekdays parses a comma-separated weekday list into sorted unique indices.
func ParseWeekdays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return NormalizeDays(days), nil
}

// NormalizeDays returns sorted, de-duplicated weekday indices.
func NormalizeDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// FormatDays renders weekday indices as "mon,wed".
func FormatDays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, WeekdayName(d))
	}
	return strings.Join(names, ",")
}

// ValidSchedule reports whether the habit's frequency configuration is usable.
func ValidSchedule(h Habit) bool {
	switch h.FrequencyType {
	case FrequencyDaily:
		return true
	case FrequencyWeeklyTimes:
		return h.FrequencyTargetTimes >= MinWeeklyTarget && h.FrequencyTargetTimes <= MaxWeeklyTarget
	case FrequencySpecificDays:
		if len(h.FrequencyDays) == 0 {
			return false
		}
		for _, d := range h.FrequencyDays {
			if d < 0 || d >= DaysPerWeek {
				return false
			}
		}
		return true
	}
	return false
}

// IsDueOn reports whether the habit is scheduled on date's weekday.
// Weekly-times habits are completable any day; the target is enforced by count.
// Invalid configurations are never due.
func IsDueOn(h Habit, date time.Time) bool {
	if !ValidSchedule(h) {
		return false
	}
	if h.FrequencyType == FrequencySpecificDays {
		return slices.Contains(h.FrequencyDays, WeekdayIndex(date))
	}
	return true
}

// IsCompletedToday reports whether the habit's last completion falls on the
// same calendar day as now, in now's location.
func IsCompletedToday(h Habit, now time.Time) bool {
	if h.LastCompletedAt == nil {
		return false
	}
	return SameDay(*h.LastCompletedAt, now)
}

// SameDay compares the calendar dates of a and b in b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateKey returns t's calendar date in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeeklyTargetMet reports whether a weekly-times habit reached its target this week.
func WeeklyTargetMet(h Habit) bool {
	return h.FrequencyType == FrequencyWeeklyTimes &&
		h.FrequencyTargetTimes > 0 &&
		h.TimesCompletedThisWeek >= h.FrequencyTargetTimes
}

// RemainingThisWeek returns how many completions a weekly-times habit still
// needs this week. Other frequency types return 0.
func RemainingThisWeek(h Habit) int {
	if h.FrequencyType != FrequencyWeeklyTimes || !ValidSchedule(h) {
		return 0
	}
	return max(0, h.FrequencyTargetTimes-h.TimesCompletedThisWeek)
}

// DescribeSchedule renders the habit's frequency for display.
func DescribeSchedule(h Habit) string {
	switch h.FrequencyType {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeeklyTimes:
		return fmt.Sprintf("%dx/week", h.FrequencyTargetTimes)
	case FrequencySpecificDays:
		return FormatDays(h.FrequencyDays)
	}
	return string(h.FrequencyType)
}
