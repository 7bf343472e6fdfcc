package services

import (
	"fmt"
	"time"

	productivityVO "github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SchedulableTask is the read-only view of a task the suggestion engine works on.
// ScheduledStartTime and ScheduledEndTime are "HH:MM" strings, empty when unset.
type SchedulableTask struct {
	ID                 uuid.UUID
	Title              string
	Priority           productivityVO.Priority
	DueDate            *time.Time
	ScheduledDate      *time.Time
	ScheduledStartTime string
	ScheduledEndTime   string
}

// IsPlaced reports whether the task has a complete calendar placement.
func (t SchedulableTask) IsPlaced() bool {
	return t.ScheduledDate != nil && t.ScheduledStartTime != "" && t.ScheduledEndTime != ""
}

type occupiedWindow struct {
	start domain.TimeOfDay
	end   domain.TimeOfDay
}

// FindAvailableSlots returns the 30-minute slots of date's work day that do not overlap
// any task already placed on that date.
func FindAvailableSlots(date time.Time, allTasks []SchedulableTask, settings domain.UserSettings) ([]domain.TimeSlot, error) {
	return findAvailableSlots(date, allTasks, settings, domain.DefaultSlotMinutes)
}

func findAvailableSlots(date time.Time, allTasks []SchedulableTask, settings domain.UserSettings, slotMinutes int) ([]domain.TimeSlot, error) {
	window, err := settings.Parse()
	if err != nil {
		return nil, err
	}

	slots := domain.GenerateSlots(window.WorkStart, window.WorkEnd, slotMinutes)
	slots = domain.MarkPeak(slots, window.PeakStart, window.PeakEnd)

	occupied, err := occupiedWindows(date, allTasks)
	if err != nil {
		return nil, err
	}

	available := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !overlapsAny(slot, occupied) {
			available = append(available, slot)
		}
	}

	return available, nil
}

func occupiedWindows(date time.Time, allTasks []SchedulableTask) ([]occupiedWindow, error) {
	windows := make([]occupiedWindow, 0)
	for _, t := range allTasks {
		if !t.IsPlaced() || !domain.SameDay(*t.ScheduledDate, date) {
			continue
		}

		start, err := domain.ParseTime(t.ScheduledStartTime)
		if err != nil {
			return nil, fmt.Errorf("task %s start: %w", t.ID, err)
		}
		end, err := domain.ParseTime(t.ScheduledEndTime)
		if err != nil {
			return nil, fmt.Errorf("task %s end: %w", t.ID, err)
		}
		windows = append(windows, occupiedWindow{start: start, end: end})
	}
	return windows, nil
}

func overlapsAny(slot domain.TimeSlot, windows []occupiedWindow) bool {
	for _, w := range windows {
		if slot.Overlaps(w.start, w.end) {
			return true
		}
	}
	return false
}
