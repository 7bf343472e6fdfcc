package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    defaultLogger(logger),
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
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
		if err := t.Complete(); err != nil {
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
