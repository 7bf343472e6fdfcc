package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SettingsProvider returns a user's effective work-day settings.
type SettingsProvider interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.UserSettings, error)
}

// TimeSlotDTO is a data transfer object for a candidate slot.
type TimeSlotDTO struct {
	StartTime string
	EndTime   string
	IsPeak    bool
}

// SuggestionDTO is a data transfer object for a ranked suggestion.
type SuggestionDTO struct {
	Date      time.Time
	StartTime string
	EndTime   string
	IsPeak    bool
	Score     int
	Reason    string
}

// ToSchedulable converts a task aggregate into the engine's read-only view.
func ToSchedulable(t *task.Task) services.SchedulableTask {
	st := services.SchedulableTask{
		ID:       t.ID(),
		Title:    t.Title(),
		Priority: t.Priority(),
		DueDate:  t.DueDate(),
	}
	if p := t.Placement(); p != nil {
		date := p.Date
		st.ScheduledDate = &date
		st.ScheduledStartTime = p.StartTime
		st.ScheduledEndTime = p.EndTime
	}
	return st
}

// ToSchedulables converts every task.
func ToSchedulables(tasks []*task.Task) []services.SchedulableTask {
	out := make([]services.SchedulableTask, len(tasks))
	for i, t := range tasks {
		out[i] = ToSchedulable(t)
	}
	return out
}

func toSlotDTOs(slots []domain.TimeSlot) []TimeSlotDTO {
	dtos := make([]TimeSlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = TimeSlotDTO{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			IsPeak:    s.IsPeak,
		}
	}
	return dtos
}

func toSuggestionDTOs(suggestions []domain.ScheduleSuggestion) []SuggestionDTO {
	dtos := make([]SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestionDTO{
			Date:      s.Date,
			StartTime: s.TimeSlot.StartTime.String(),
			EndTime:   s.TimeSlot.EndTime.String(),
			IsPeak:    s.TimeSlot.IsPeak,
			Score:     s.Score,
			Reason:    s.Reason,
		}
	}
	return dtos
}
