package persistence

import (
	"errors"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
)

var (
	// ErrTaskNotFound is the domain sentinel so callers above the store can match it.
	ErrTaskNotFound      = task.ErrTaskNotFound
	ErrOptimisticLocking = errors.New("optimistic locking conflict")
)
