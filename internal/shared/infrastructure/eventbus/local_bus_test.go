package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/felixgeelhaar/studyflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func newSampleEvent(routingKey, title string) *sampleEvent {
	return &sampleEvent{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "Sample", routingKey),
		Title:     title,
	}
}

type recordingConsumer struct {
	mu     sync.Mutex
	types  []string
	events []*Event
	err    error
}

func (c *recordingConsumer) EventTypes() []string { return c.types }

func (c *recordingConsumer) Handle(ctx context.Context, event *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *recordingConsumer) received() []*Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Event(nil), c.events...)
}

func TestNewEvent(t *testing.T) {
	de := newSampleEvent("productivity.task.created", "Essay")
	userID := uuid.New()
	correlationID := uuid.New()
	de.SetMetadata(domain.EventMetadata{UserID: userID, CorrelationID: correlationID})

	event, err := NewEvent(de)
	require.NoError(t, err)

	assert.Equal(t, de.EventID(), event.EventID)
	assert.Equal(t, de.AggregateID(), event.AggregateID)
	assert.Equal(t, "Sample", event.AggregateType)
	assert.Equal(t, "productivity.task.created", event.RoutingKey)
	assert.Equal(t, userID, event.Metadata.UserID)
	assert.Equal(t, correlationID.String(), event.Metadata.CorrelationID)
	assert.Empty(t, event.Metadata.CausationID)

	var payload struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "Essay", payload.Title)
}

func TestRouteMatches(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"productivity.task.created", "productivity.task.created", true},
		{"productivity.task.created", "productivity.task.completed", false},
		{MatchAll, "anything.at.all", true},
		{"productivity.task.#", "productivity.task.scheduled", true},
		{"productivity.task.#", "productivity.taskx.scheduled", false},
		{"productivity.#", "scheduling.slot.found", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"->"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, routeMatches(tt.pattern, tt.key))
		})
	}
}

func TestLocalBus_Dispatch(t *testing.T) {
	bus := NewLocalBus(nil)
	exact := &recordingConsumer{types: []string{"productivity.task.created"}}
	wildcard := &recordingConsumer{types: []string{"productivity.task.#"}}
	other := &recordingConsumer{types: []string{"identity.settings.updated"}}
	bus.Register(exact)
	bus.Register(wildcard)
	bus.Register(other)
	assert.Equal(t, 3, bus.ConsumerCount())

	events := []domain.DomainEvent{
		newSampleEvent("productivity.task.created", "one"),
		newSampleEvent("productivity.task.completed", "two"),
	}
	require.NoError(t, PublishDomainEvents(context.Background(), bus, events))

	require.Len(t, exact.received(), 1)
	assert.Equal(t, events[0].EventID(), exact.received()[0].EventID)
	assert.Len(t, wildcard.received(), 2)
	assert.Empty(t, other.received())
}

func TestLocalBus_ConsumerErrorsAreJoined(t *testing.T) {
	bus := NewLocalBus(nil)
	boom := errors.New("boom")
	failing := &recordingConsumer{types: []string{MatchAll}, err: boom}
	healthy := &recordingConsumer{types: []string{MatchAll}}
	bus.Register(failing)
	bus.Register(healthy)

	err := PublishDomainEvents(context.Background(), bus, []domain.DomainEvent{newSampleEvent("a.b.c", "x")})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, healthy.received(), 1)
}

func TestLocalBus_RejectsGarbage(t *testing.T) {
	bus := NewLocalBus(nil)
	err := bus.Publish(context.Background(), "a.b.c", []byte("not json"))
	assert.Error(t, err)
}

func TestLocalBus_FillsMissingRoutingKey(t *testing.T) {
	bus := NewLocalBus(nil)
	c := &recordingConsumer{types: []string{"a.b.c"}}
	bus.Register(c)

	require.NoError(t, bus.Publish(context.Background(), "a.b.c", []byte(`{"payload":{}}`)))
	require.Len(t, c.received(), 1)
	assert.Equal(t, "a.b.c", c.received()[0].RoutingKey)
}
