package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, publisher eventbus.Publisher, logger *slog.Logger) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    defaultLogger(logger),
	}
}

// Handle validates the command, stores the new task and publishes TaskCreated.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := buildTask(cmd)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.taskRepo.Save(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	publishTaskEvents(ctx, h.publisher, h.logger, cmd.UserID, t)
	return &CreateTaskResult{TaskID: t.ID()}, nil
}

func buildTask(cmd CreateTaskCommand) (*task.Task, error) {
	t, err := task.NewTask(cmd.UserID, cmd.Title)
	if err != nil {
		return nil, err
	}

	var setters []func() error
	if cmd.Description != "" {
		setters = append(setters, func() error { return t.SetDescription(cmd.Description) })
	}
	if cmd.Priority != "" {
		priority, err := value_objects.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, err
		}
		setters = append(setters, func() error { return t.SetPriority(priority) })
	}
	if cmd.DueDate != nil {
		setters = append(setters, func() error { return t.SetDueDate(cmd.DueDate) })
	}
	for _, set := range setters {
		if err := set(); err != nil {
			return nil, err
		}
	}
	return t, nil
}
