package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// MatchAll subscribes a consumer to every routing key.
const MatchAll = "#"

// LocalBus is an in-process Publisher used when no broker is configured.
// Events are delivered synchronously to registered consumers.
type LocalBus struct {
	consumers map[string][]EventConsumer
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewLocalBus creates a new in-process bus.
func NewLocalBus(logger *slog.Logger) *LocalBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBus{
		consumers: make(map[string][]EventConsumer),
		logger:    logger,
	}
}

// Register adds a consumer for its declared event types. A routing key of the
// form "productivity.task.#" matches every key under that prefix.
func (b *LocalBus) Register(consumer EventConsumer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, key := range consumer.EventTypes() {
		b.consumers[key] = append(b.consumers[key], consumer)
		b.logger.Debug("registered consumer", "routing_key", key)
	}
}

// ConsumerCount returns the number of registrations across all keys.
func (b *LocalBus) ConsumerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, cs := range b.consumers {
		n += len(cs)
	}
	return n
}

// Publish decodes the envelope and dispatches it to every matching consumer.
// Consumer failures are returned joined; each consumer still receives the event.
func (b *LocalBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event := &Event{}
	if err := json.Unmarshal(payload, event); err != nil {
		return fmt.Errorf("decode event %s: %w", routingKey, err)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	consumers := b.match(event.RoutingKey)
	if len(consumers) == 0 {
		b.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, c := range consumers {
		if err := c.Handle(ctx, event); err != nil {
			b.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close is a no-op for the in-process bus.
func (b *LocalBus) Close() error {
	return nil
}

func (b *LocalBus) match(routingKey string) []EventConsumer {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []EventConsumer
	for key, cs := range b.consumers {
		if routeMatches(key, routingKey) {
			out = append(out, cs...)
		}
	}
	return out
}

func routeMatches(pattern, routingKey string) bool {
	if pattern == MatchAll || pattern == routingKey {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, ".#"); ok {
		return strings.HasPrefix(routingKey, prefix+".")
	}
	return false
}
