package task

import (
	"time"

	"github.com/felixgeelhaar/studyflow/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated     = "productivity.task.created"
	RoutingKeyScheduled   = "productivity.task.scheduled"
	RoutingKeyUnscheduled = "productivity.task.unscheduled"
	RoutingKeyCompleted   = "productivity.task.completed"
	RoutingKeyArchived    = "productivity.task.archived"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID uuid.UUID, title, priority string) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:     title,
		Priority:  priority,
	}
}

// TaskScheduled is emitted when a task is placed on the calendar.
type TaskScheduled struct {
	domain.BaseEvent
	ScheduledDate      string `json:"scheduled_date"`
	ScheduledStartTime string `json:"scheduled_start_time"`
	ScheduledEndTime   string `json:"scheduled_end_time"`
}

// NewTaskScheduled creates a TaskScheduled event.
func NewTaskScheduled(taskID uuid.UUID, date time.Time, start, end string) *TaskScheduled {
	return &TaskScheduled{
		BaseEvent:          domain.NewBaseEvent(taskID, AggregateType, RoutingKeyScheduled),
		ScheduledDate:      date.Format(time.DateOnly),
		ScheduledStartTime: start,
		ScheduledEndTime:   end,
	}
}

// TaskUnscheduled is emitted when a task's placement is cleared.
type TaskUnscheduled struct {
	domain.BaseEvent
}

// NewTaskUnscheduled creates a TaskUnscheduled event.
func NewTaskUnscheduled(taskID uuid.UUID) *TaskUnscheduled {
	return &TaskUnscheduled{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUnscheduled),
	}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
	}
}

// TaskArchived is emitted when a task is archived.
type TaskArchived struct {
	domain.BaseEvent
}

// NewTaskArchived creates a TaskArchived event.
func NewTaskArchived(taskID uuid.UUID) *TaskArchived {
	return &TaskArchived{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyArchived),
	}
}
