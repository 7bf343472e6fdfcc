package task

import (
	"context"

	"github.com/google/uuid"
)

// Finder is the read side of task storage used by queries and suggestions.
type Finder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindPending returns the user's tasks still in the pending state.
	FindPending(ctx context.Context, userID uuid.UUID) ([]*Task, error)
}

// Repository persists tasks. Save must bump the version on every write.
type Repository interface {
	Finder
	Save(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}
