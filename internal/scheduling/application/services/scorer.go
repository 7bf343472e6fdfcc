package services

import (
	"math"
	"strings"
	"time"

	productivityVO "github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
)

// Score weights for the slot heuristic.
const (
	BaseScore        = 50
	HighPeakBonus    = 30
	MediumPeakBonus  = 15
	DueSoonBonus     = 25
	DueThisWeekBonus = 10
	MorningBonus     = 15
	TodayBonus       = 10
	TomorrowBonus    = 5

	MinScore = 0
	MaxScore = 100

	dueSoonDays     = 2
	dueThisWeekDays = 5

	// Morning focus covers slots starting between 09:00 and 11:59 regardless of work hours.
	morningFirstHour = 9
	morningLastHour  = 11
)

// Reason clauses, appended in this order.
const (
	ReasonPeak          = "Peak productivity hours"
	ReasonMorning       = "Morning focus time"
	ReasonDueSoon       = "Due soon"
	ReasonDueThisWeek   = "Due within 5 days"
	ReasonAvailableSlot = "Available time slot"
)

// ScoreSlot rates placing task into slot on date, as seen from today.
// The score is clamped to [MinScore, MaxScore].
func ScoreSlot(task SchedulableTask, slot domain.TimeSlot, date, today time.Time) (int, string) {
	score := BaseScore
	var peakClause, morningClause, dueClause string

	if slot.IsPeak {
		switch task.Priority {
		case productivityVO.PriorityHigh:
			score += HighPeakBonus
			peakClause = ReasonPeak
		case productivityVO.PriorityMedium:
			score += MediumPeakBonus
			peakClause = ReasonPeak
		}
	}

	if task.DueDate != nil {
		// Past-due dates (negative days) fall into the "due soon" bucket; no penalty applies.
		days := DaysUntilDue(*task.DueDate, date)
		switch {
		case days <= dueSoonDays:
			score += DueSoonBonus
			dueClause = ReasonDueSoon
		case days <= dueThisWeekDays:
			score += DueThisWeekBonus
			dueClause = ReasonDueThisWeek
		}
	}

	if hour := slot.StartTime.Hour(); hour >= morningFirstHour && hour <= morningLastHour {
		score += MorningBonus
		morningClause = ReasonMorning
	}

	day := domain.StartOfDay(today)
	switch {
	case domain.SameDay(date, day):
		score += TodayBonus
	case domain.SameDay(date, day.AddDate(0, 0, 1)):
		score += TomorrowBonus
	}

	return clampScore(score), buildReason(peakClause, morningClause, dueClause)
}

// DaysUntilDue returns ceil((dueDate - date) / 1 day), measured on wall clocks so that
// daylight-saving transitions do not shift the result.
func DaysUntilDue(dueDate, date time.Time) int {
	return int(math.Ceil(wallClock(dueDate).Sub(wallClock(date)).Hours() / 24))
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func buildReason(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ReasonAvailableSlot
	}
	return strings.Join(parts, ", ")
}
