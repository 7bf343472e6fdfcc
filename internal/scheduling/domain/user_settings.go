package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidWorkHours = errors.New("work start must be before work end")

// Default work-day settings substituted by the settings store when a user has none.
const (
	DefaultWorkStartTime  = "09:00"
	DefaultWorkEndTime    = "17:00"
	DefaultPeakHoursStart = "10:00"
	DefaultPeakHoursEnd   = "12:00"
)

// UserSettings describes a user's work day and preferred peak window as "HH:MM" strings.
type UserSettings struct {
	WorkStartTime  string `json:"work_start_time"`
	WorkEndTime    string `json:"work_end_time"`
	PeakHoursStart string `json:"peak_hours_start"`
	PeakHoursEnd   string `json:"peak_hours_end"`
}

// DefaultUserSettings returns the documented 09:00-17:00 day with a 10:00-12:00 peak.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		WorkStartTime:  DefaultWorkStartTime,
		WorkEndTime:    DefaultWorkEndTime,
		PeakHoursStart: DefaultPeakHoursStart,
		PeakHoursEnd:   DefaultPeakHoursEnd,
	}
}

// WorkWindow holds parsed UserSettings.
type WorkWindow struct {
	WorkStart TimeOfDay
	WorkEnd   TimeOfDay
	PeakStart TimeOfDay
	PeakEnd   TimeOfDay
}

// Parse converts the settings strings into a WorkWindow.
// It does not require WorkStart < WorkEnd; an inverted day simply has no slots.
func (s UserSettings) Parse() (WorkWindow, error) {
	var (
		w   WorkWindow
		err error
	)
	if w.WorkStart, err = ParseTime(s.WorkStartTime); err != nil {
		return WorkWindow{}, fmt.Errorf("work_start_time: %w", err)
	}
	if w.WorkEnd, err = ParseTime(s.WorkEndTime); err != nil {
		return WorkWindow{}, fmt.Errorf("work_end_time: %w", err)
	}
	if w.PeakStart, err = ParseTime(s.PeakHoursStart); err != nil {
		return WorkWindow{}, fmt.Errorf("peak_hours_start: %w", err)
	}
	if w.PeakEnd, err = ParseTime(s.PeakHoursEnd); err != nil {
		return WorkWindow{}, fmt.Errorf("peak_hours_end: %w", err)
	}
	return w, nil
}

// Validate checks that the settings parse and describe a non-empty work day.
func (s UserSettings) Validate() error {
	w, err := s.Parse()
	if err != nil {
		return err
	}
	if !w.WorkStart.IsBefore(w.WorkEnd) {
		return ErrInvalidWorkHours
	}
	return nil
}
