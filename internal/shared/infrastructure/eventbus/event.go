package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/shared/domain"
	"github.com/google/uuid"
)

// Event is the wire envelope for a domain event. Payload holds the
// event-specific fields; the envelope carries identity and routing.
type Event struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata contains optional tracing data about the event.
type EventMetadata struct {
	UserID        uuid.UUID `json:"user_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CausationID   string    `json:"causation_id,omitempty"`
}

// NewEvent wraps a domain event in an envelope.
func NewEvent(event domain.DomainEvent) (*Event, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.RoutingKey(), err)
	}

	md := event.Metadata()
	out := &Event{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata:      EventMetadata{UserID: md.UserID},
	}
	if md.CorrelationID != uuid.Nil {
		out.Metadata.CorrelationID = md.CorrelationID.String()
	}
	if md.CausationID != uuid.Nil {
		out.Metadata.CausationID = md.CausationID.String()
	}
	return out, nil
}

// EventConsumer handles specific event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["productivity.task.scheduled"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *Event) error
}
