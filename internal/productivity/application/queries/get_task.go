package queries

import (
	"context"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// ErrTaskNotFound is returned for unknown tasks and tasks of other users.
var ErrTaskNotFound = task.ErrTaskNotFound

type GetTaskQuery struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// GetTaskHandler loads one task for its owner.
type GetTaskHandler struct {
	taskRepo task.Finder
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Finder) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle hides tasks owned by someone else behind ErrTaskNotFound.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CheckOwner(query.UserID) != nil {
		return nil, ErrTaskNotFound
	}

	dto := toTaskDTO(t)
	return &dto, nil
}
