package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot holds identity, timestamps, the optimistic-lock version and
// the events raised since the aggregate was loaded. Embed it by value.
type AggregateRoot struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []DomainEvent
}

// NewAggregateRoot returns an unsaved root (version 0) with a fresh ID.
func NewAggregateRoot() AggregateRoot {
	now := time.Now().UTC()
	return AggregateRoot{id: uuid.New(), createdAt: now, updatedAt: now}
}

// RehydrateAggregateRoot restores the root of a stored aggregate.
func RehydrateAggregateRoot(id uuid.UUID, version int, createdAt, updatedAt time.Time) AggregateRoot {
	return AggregateRoot{
		id:        id,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}
}

func (a *AggregateRoot) ID() uuid.UUID        { return a.id }
func (a *AggregateRoot) CreatedAt() time.Time { return a.createdAt }
func (a *AggregateRoot) UpdatedAt() time.Time { return a.updatedAt }
func (a *AggregateRoot) Version() int         { return a.version }

// Touch marks the aggregate as modified now.
func (a *AggregateRoot) Touch() {
	a.updatedAt = time.Now().UTC()
}

// SetVersion records the version a repository just wrote.
func (a *AggregateRoot) SetVersion(version int) {
	a.version = version
}

func (a *AggregateRoot) IncrementVersion() {
	a.version++
}

// AddDomainEvent queues an event for publication after the next commit.
func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// DomainEvents returns the queued events in the order they were raised.
func (a *AggregateRoot) DomainEvents() []DomainEvent {
	return a.events
}

func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}
