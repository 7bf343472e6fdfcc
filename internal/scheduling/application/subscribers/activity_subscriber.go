package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	taskDomain "github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
)

// ActivitySubscriber records task lifecycle events as log lines and counters.
// It is registered on the local bus when no broker is configured.
type ActivitySubscriber struct {
	metrics observability.Metrics
	logger  *slog.Logger
	enabled bool
}

// NewActivitySubscriber creates a new activity subscriber.
func NewActivitySubscriber(metrics observability.Metrics, logger *slog.Logger) *ActivitySubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ActivitySubscriber{
		metrics: metrics,
		logger:  logger,
		enabled: true,
	}
}

// SetEnabled enables or disables the subscriber.
func (s *ActivitySubscriber) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// EventTypes returns the event types this subscriber handles.
func (s *ActivitySubscriber) EventTypes() []string {
	return []string{
		taskDomain.RoutingKeyCreated,
		taskDomain.RoutingKeyScheduled,
		taskDomain.RoutingKeyUnscheduled,
		taskDomain.RoutingKeyCompleted,
	}
}

// TaskScheduledPayload is the payload for task.scheduled events.
type TaskScheduledPayload struct {
	ScheduledDate      string `json:"scheduled_date"`
	ScheduledStartTime string `json:"scheduled_start_time"`
	ScheduledEndTime   string `json:"scheduled_end_time"`
}

// Handle processes an event.
func (s *ActivitySubscriber) Handle(ctx context.Context, event *eventbus.Event) error {
	if !s.enabled {
		s.logger.Debug("activity subscriber disabled, skipping event",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	attrs := []any{
		"routing_key", event.RoutingKey,
		"task_id", event.AggregateID,
		"user_id", event.Metadata.UserID,
	}

	switch event.RoutingKey {
	case taskDomain.RoutingKeyCreated:
		s.metrics.Counter(observability.MetricTasksCreated, 1)
	case taskDomain.RoutingKeyCompleted:
		s.metrics.Counter(observability.MetricTasksCompleted, 1)
	case taskDomain.RoutingKeyUnscheduled:
		s.metrics.Counter(observability.MetricTasksUnscheduled, 1)
	case taskDomain.RoutingKeyScheduled:
		var payload TaskScheduledPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			s.logger.WarnContext(ctx, "failed to decode scheduled payload",
				"task_id", event.AggregateID,
				"error", err,
			)
			return err
		}
		s.metrics.Counter(observability.MetricTasksScheduled, 1)
		attrs = append(attrs,
			"date", payload.ScheduledDate,
			"start", payload.ScheduledStartTime,
			"end", payload.ScheduledEndTime,
		)
	default:
		s.logger.Warn("unknown event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	s.logger.InfoContext(ctx, "task activity", attrs...)
	return nil
}
