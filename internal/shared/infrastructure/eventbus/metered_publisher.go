package eventbus

import (
	"context"

	"github.com/felixgeelhaar/studyflow/pkg/observability"
)

// MeteredPublisher counts published and failed messages per routing key.
type MeteredPublisher struct {
	next    Publisher
	metrics observability.Metrics
}

// NewMeteredPublisher wraps next.
func NewMeteredPublisher(next Publisher, metrics observability.Metrics) *MeteredPublisher {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &MeteredPublisher{next: next, metrics: metrics}
}

// Publish forwards to the wrapped publisher and records the outcome.
func (p *MeteredPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	err := p.next.Publish(ctx, routingKey, payload)
	if err != nil {
		p.metrics.Counter(observability.MetricEventsPublishFailed, 1, observability.T("routing_key", routingKey))
		return err
	}
	p.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", routingKey))
	return nil
}

// Close closes the wrapped publisher.
func (p *MeteredPublisher) Close() error {
	return p.next.Close()
}
