package task

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/studyflow/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskArchived        = errors.New("task is archived")
	ErrInvalidPlacement    = errors.New("scheduled end time must be after start time")
	ErrTaskNotOwned        = errors.New("task does not belong to user")
	ErrTaskNotFound        = errors.New("task not found")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored status string back into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	case "archived":
		return StatusArchived, nil
	default:
		return StatusPending, errors.New("invalid task status: " + s)
	}
}

// Placement is a task's position on the calendar: a date plus "HH:MM" start and end times.
type Placement struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// Task represents a unit of study work.
type Task struct {
	domain.AggregateRoot
	userID      uuid.UUID
	title       string
	description string
	status      Status
	priority    value_objects.Priority
	dueDate     *time.Time
	placement   *Placement
	completedAt *time.Time
}

// NewTask creates a new task with the given title and medium priority.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		AggregateRoot: domain.NewAggregateRoot(),
		userID:        userID,
		title:         title,
		status:        StatusPending,
		priority:      value_objects.PriorityMedium,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title, t.priority.String()))

	return t, nil
}

// Getters

func (t *Task) UserID() uuid.UUID                { return t.userID }
func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) DueDate() *time.Time              { return t.dueDate }
func (t *Task) CompletedAt() *time.Time          { return t.completedAt }
func (t *Task) IsCompleted() bool                { return t.status == StatusCompleted }
func (t *Task) IsArchived() bool                 { return t.status == StatusArchived }
func (t *Task) IsScheduled() bool                { return t.placement != nil }

// Placement returns a copy of the task's calendar placement, or nil.
func (t *Task) Placement() *Placement {
	if t.placement == nil {
		return nil
	}
	p := *t.placement
	return &p
}

// CheckOwner returns ErrTaskNotOwned unless the task belongs to userID.
func (t *Task) CheckOwner(userID uuid.UUID) error {
	if t.userID != userID {
		return ErrTaskNotOwned
	}
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.description = strings.TrimSpace(description)
	t.Touch()
	return nil
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetDueDate updates the due date.
func (t *Task) SetDueDate(dueDate *time.Time) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	t.dueDate = dueDate
	t.Touch()
	return nil
}

// ScheduleAt places the task on date between the zero-padded "HH:MM" times start and end.
func (t *Task) ScheduleAt(date time.Time, start, end string) error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	// Zero-padded clock times order lexically.
	if !isClockTime(start) || !isClockTime(end) || end <= start {
		return ErrInvalidPlacement
	}

	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	t.placement = &Placement{Date: date, StartTime: start, EndTime: end}
	t.Touch()

	t.AddDomainEvent(NewTaskScheduled(t.ID(), date, start, end))

	return nil
}

// Unschedule removes the task's placement. It is idempotent.
func (t *Task) Unschedule() error {
	if t.IsArchived() {
		return ErrTaskArchived
	}
	if t.placement == nil {
		return nil
	}
	t.placement = nil
	t.Touch()
	t.AddDomainEvent(NewTaskUnscheduled(t.ID()))
	return nil
}

// Complete marks the task as completed.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.IsArchived() {
		return ErrTaskArchived
	}

	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID()))

	return nil
}

// Archive marks the task as archived.
func (t *Task) Archive() error {
	if t.IsArchived() {
		return nil // Idempotent
	}

	t.status = StatusArchived
	t.Touch()

	t.AddDomainEvent(NewTaskArchived(t.ID()))

	return nil
}

func isClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// RehydrateTask recreates a task from persisted state without emitting events.
func RehydrateTask(
	id uuid.UUID,
	userID uuid.UUID,
	title, description string,
	status Status,
	priority value_objects.Priority,
	dueDate *time.Time,
	placement *Placement,
	completedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		AggregateRoot: domain.RehydrateAggregateRoot(id, version, createdAt, updatedAt),
		userID:        userID,
		title:         title,
		description:   description,
		status:        status,
		priority:      priority,
		dueDate:       dueDate,
		placement:     placement,
		completedAt:   completedAt,
	}
}
