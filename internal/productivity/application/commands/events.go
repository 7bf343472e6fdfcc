package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/studyflow/internal/shared/application"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// publishTaskEvents publishes and clears the task's pending domain events.
// It runs after commit; the stored task is authoritative, so failures are only logged.
func publishTaskEvents(ctx context.Context, pub eventbus.Publisher, logger *slog.Logger, userID uuid.UUID, t *task.Task) {
	events := t.DomainEvents()
	if len(events) == 0 || pub == nil {
		t.ClearDomainEvents()
		return
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, userID))
	if err := eventbus.PublishDomainEvents(ctx, pub, events); err != nil {
		logger.WarnContext(ctx, "failed to publish task events",
			"task_id", t.ID(),
			"events", len(events),
			"error", err,
		)
	}
	t.ClearDomainEvents()
}
