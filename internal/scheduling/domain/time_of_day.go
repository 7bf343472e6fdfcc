package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrInvalidFormat = errors.New("invalid time format, use HH:MM")
	ErrOutOfRange    = errors.New("time is outside of a single day")
)

// MinutesPerDay is the number of minutes between 00:00 and 24:00.
const MinutesPerDay = 24 * 60

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimeOfDay is a wall-clock time without a date, stored as minutes since midnight.
type TimeOfDay int

// ParseTime parses an "HH:MM" string. Single-digit hours are accepted.
func ParseTime(s string) (TimeOfDay, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// MustParseTime parses an "HH:MM" string or panics on error.
func MustParseTime(s string) TimeOfDay {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTimeOfDay creates a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrOutOfRange, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// AddMinutes returns t shifted by m minutes. The result must stay within the same day.
func (t TimeOfDay) AddMinutes(m int) (TimeOfDay, error) {
	total := int(t) + m
	if total < 0 || total >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %s %+d minutes", ErrOutOfRange, t, m)
	}
	return TimeOfDay(total), nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeOfDay) IsBefore(other TimeOfDay) bool { return t < other }

// IsAfter reports whether t is strictly later than other.
func (t TimeOfDay) IsAfter(other TimeOfDay) bool { return t > other }

// IntervalsOverlap reports whether [s1,e1) and [s2,e2) overlap.
// Back-to-back intervals (e1 == s2) do not overlap.
func IntervalsOverlap(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && e1 > s2
}
