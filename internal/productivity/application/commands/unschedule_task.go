package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// UnscheduleTaskCommand clears a task's calendar placement.
type UnscheduleTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// UnscheduleTaskHandler handles the UnscheduleTaskCommand.
type UnscheduleTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewUnscheduleTaskHandler creates a new UnscheduleTaskHandler.
func NewUnscheduleTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *UnscheduleTaskHandler {
	return &UnscheduleTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    defaultLogger(logger),
	}
}

// Handle executes the UnscheduleTaskCommand. Unscheduling an unplaced task is a no-op.
func (h *UnscheduleTaskHandler) Handle(ctx context.Context, cmd UnscheduleTaskCommand) error {
	var t *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		t, err = h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if err := t.CheckOwner(cmd.UserID); err != nil {
			return err
		}
		if !t.IsScheduled() {
			return nil
		}
		if err := t.Unschedule(); err != nil {
			return err
		}
		return h.taskRepo.Save(txCtx, t)
	})
	if err != nil {
		return err
	}

	publishTaskEvents(ctx, h.publisher, h.logger, cmd.UserID, t)
	return nil
}
