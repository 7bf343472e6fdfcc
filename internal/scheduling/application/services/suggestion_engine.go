package services

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SuggestionConfig contains configuration for the suggestion engine.
type SuggestionConfig struct {
	HorizonDays int // number of days scanned, starting today
	SlotMinutes int // slot granularity
	MaxResults  int // maximum number of suggestions returned
}

// DefaultSuggestionConfig returns a default configuration.
func DefaultSuggestionConfig() SuggestionConfig {
	return SuggestionConfig{
		HorizonDays: 7,
		SlotMinutes: domain.DefaultSlotMinutes,
		MaxResults:  5,
	}
}

// SuggestionEngine ranks open slots for a task across a multi-day horizon.
// It holds no state between calls and is safe for concurrent use.
type SuggestionEngine struct {
	config SuggestionConfig
	now    func() time.Time
}

// NewSuggestionEngine creates a new suggestion engine.
func NewSuggestionEngine(config SuggestionConfig) *SuggestionEngine {
	if config.SlotMinutes <= 0 {
		config.SlotMinutes = domain.DefaultSlotMinutes
	}
	return &SuggestionEngine{
		config: config,
		now:    time.Now,
	}
}

// WithClock returns a copy of the engine that reads the current time from now.
func (e *SuggestionEngine) WithClock(now func() time.Time) *SuggestionEngine {
	clone := *e
	clone.now = now
	return &clone
}

// Config returns the engine configuration.
func (e *SuggestionEngine) Config() SuggestionConfig {
	return e.config
}

// Today returns midnight of the engine's current day.
func (e *SuggestionEngine) Today() time.Time {
	return domain.StartOfDay(e.now())
}

// SuggestSlots scores every open slot for task over the horizon and returns the best
// MaxResults, highest score first. Ties keep generation order: earlier dates, then earlier
// slots. The task's own placement is not treated as an obstacle.
func (e *SuggestionEngine) SuggestSlots(
	task SchedulableTask,
	allTasks []SchedulableTask,
	settings domain.UserSettings,
) ([]domain.ScheduleSuggestion, error) {
	suggestions := make([]domain.ScheduleSuggestion, 0)
	if e.config.HorizonDays <= 0 || e.config.MaxResults <= 0 {
		return suggestions, nil
	}

	obstacles := withoutTask(allTasks, task.ID)
	today := e.Today()

	for day := 0; day < e.config.HorizonDays; day++ {
		date := today.AddDate(0, 0, day)

		slots, err := findAvailableSlots(date, obstacles, settings, e.config.SlotMinutes)
		if err != nil {
			return nil, err
		}

		for _, slot := range slots {
			score, reason := ScoreSlot(task, slot, date, today)
			suggestions = append(suggestions, domain.ScheduleSuggestion{
				Date:     date,
				TimeSlot: slot,
				Reason:   reason,
				Score:    score,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > e.config.MaxResults {
		suggestions = suggestions[:e.config.MaxResults]
	}

	return suggestions, nil
}

// FindAvailableSlots returns the open slots for date using the engine's slot granularity.
func (e *SuggestionEngine) FindAvailableSlots(
	date time.Time,
	allTasks []SchedulableTask,
	settings domain.UserSettings,
) ([]domain.TimeSlot, error) {
	return findAvailableSlots(date, allTasks, settings, e.config.SlotMinutes)
}

func withoutTask(tasks []SchedulableTask, id uuid.UUID) []SchedulableTask {
	if id == uuid.Nil {
		return tasks
	}
	filtered := make([]SchedulableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
