package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ErrSlotTaken is returned when the accepted window overlaps another placed task.
var ErrSlotTaken = errors.New("time slot overlaps another scheduled task")

// AcceptSuggestionCommand writes a chosen suggestion back onto the task.
type AcceptSuggestionCommand struct {
	UserID    uuid.UUID
	TaskID    uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
}

// AcceptSuggestionResult describes the stored placement.
type AcceptSuggestionResult struct {
	TaskID    uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
}

// AcceptSuggestionHandler handles the AcceptSuggestionCommand.
type AcceptSuggestionHandler struct {
	taskRepo  task.Repository
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewAcceptSuggestionHandler creates a new AcceptSuggestionHandler.
func NewAcceptSuggestionHandler(
	taskRepo task.Repository,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *AcceptSuggestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AcceptSuggestionHandler{
		taskRepo:  taskRepo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle places the task and publishes its events once the write is committed.
func (h *AcceptSuggestionHandler) Handle(ctx context.Context, cmd AcceptSuggestionCommand) (*AcceptSuggestionResult, error) {
	start, err := domain.ParseTime(cmd.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	end, err := domain.ParseTime(cmd.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}

	var t *task.Task
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err = h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if err := t.CheckOwner(cmd.UserID); err != nil {
			return err
		}

		others, err := h.taskRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if err := checkFree(others, t.ID(), cmd.Date, start, end); err != nil {
			return err
		}

		if err := t.ScheduleAt(cmd.Date, start.String(), end.String()); err != nil {
			return err
		}
		return h.taskRepo.Save(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, cmd.UserID, t)

	p := t.Placement()
	return &AcceptSuggestionResult{
		TaskID:    t.ID(),
		Date:      p.Date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}, nil
}

func (h *AcceptSuggestionHandler) publish(ctx context.Context, userID uuid.UUID, t *task.Task) {
	events := t.DomainEvents()
	defer t.ClearDomainEvents()
	if h.publisher == nil || len(events) == 0 {
		return
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, userID))
	if err := eventbus.PublishDomainEvents(ctx, h.publisher, events); err != nil {
		h.logger.WarnContext(ctx, "failed to publish placement events",
			"task_id", t.ID(),
			"error", err,
		)
	}
}

// checkFree rejects [start, end) on date when another placed task overlaps it.
// Stored placements that fail to parse are ignored.
func checkFree(tasks []*task.Task, self uuid.UUID, date time.Time, start, end domain.TimeOfDay) error {
	for _, other := range tasks {
		p := other.Placement()
		if other.ID() == self || p == nil || !domain.SameDay(p.Date, date) {
			continue
		}
		otherStart, err := domain.ParseTime(p.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := domain.ParseTime(p.EndTime)
		if err != nil {
			continue
		}
		if domain.IntervalsOverlap(start, end, otherStart, otherEnd) {
			return fmt.Errorf("%w: %q %s-%s", ErrSlotTaken, other.Title(), p.StartTime, p.EndTime)
		}
	}
	return nil
}
