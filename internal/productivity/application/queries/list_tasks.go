package queries

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Description        string
	Status             string
	Priority           string
	DueDate            *time.Time
	ScheduledDate      *time.Time
	ScheduledStartTime string
	ScheduledEndTime   string
	CompletedAt        *time.Time
	CreatedAt          time.Time
}

// IsScheduled reports whether the task has a calendar placement.
func (d TaskDTO) IsScheduled() bool {
	return d.ScheduledDate != nil
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID           uuid.UUID
	IncludeCompleted bool   // include completed and archived tasks
	UnscheduledOnly  bool   // only tasks without a placement
	Priority         string // "low", "medium", "high"
	Overdue          bool   // only tasks due before today
	SortBy           string // "created_at" (default), "priority", "due_date"
	Limit            int    // 0 = no limit
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Finder
	now      func() time.Time
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Finder) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo, now: time.Now}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var tasks []*task.Task
	var err error

	if query.IncludeCompleted {
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
	} else {
		tasks, err = h.taskRepo.FindPending(ctx, query.UserID)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]*task.Task, 0, len(tasks))
	today := startOfDay(h.now())
	for _, t := range tasks {
		if query.UnscheduledOnly && t.IsScheduled() {
			continue
		}
		if query.Priority != "" && t.Priority().String() != query.Priority {
			continue
		}
		if query.Overdue && (t.DueDate() == nil || !t.DueDate().Before(today) || t.IsCompleted()) {
			continue
		}
		filtered = append(filtered, t)
	}

	sortTasks(filtered, query.SortBy)

	if query.Limit > 0 && len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}

	return toTaskDTOs(filtered), nil
}

// sortTasks orders tasks in place. Ties keep repository order.
func sortTasks(tasks []*task.Task, sortBy string) {
	switch sortBy {
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority().Compare(tasks[j].Priority()) > 0
		})
	case "due_date":
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate(), tasks[j].DueDate()
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func toTaskDTO(t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID(),
		UserID:      t.UserID(),
		Title:       t.Title(),
		Description: t.Description(),
		Status:      t.Status().String(),
		Priority:    t.Priority().String(),
		DueDate:     t.DueDate(),
		CompletedAt: t.CompletedAt(),
		CreatedAt:   t.CreatedAt(),
	}
	if p := t.Placement(); p != nil {
		date := p.Date
		dto.ScheduledDate = &date
		dto.ScheduledStartTime = p.StartTime
		dto.ScheduledEndTime = p.EndTime
	}
	return dto
}
