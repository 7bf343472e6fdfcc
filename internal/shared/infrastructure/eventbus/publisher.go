package eventbus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/studyflow/internal/shared/domain"
)

// Publisher delivers encoded events by routing key. Implementations are the
// in-process LocalBus and RabbitMQ, optionally wrapped by BreakerPublisher
// and MeteredPublisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishDomainEvents wraps each event in an Event envelope and publishes it.
// Every event is attempted; the returned error joins all failures.
func PublishDomainEvents(ctx context.Context, pub Publisher, events []domain.DomainEvent) error {
	var errs []error
	for _, de := range events {
		event, err := NewEvent(de)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		body, err := json.Marshal(event)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := pub.Publish(ctx, event.RoutingKey, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
