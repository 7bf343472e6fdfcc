package value_objects

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// Priority ranks how important a task is. The zero value is not a valid priority.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority accepts low, medium or high, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("%w %q: want low, medium or high", ErrInvalidPriority, s)
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Compare returns -1, 0 or +1 as p ranks below, equal to or above other.
func (p Priority) Compare(other Priority) int {
	return cmp.Compare(p, other)
}
