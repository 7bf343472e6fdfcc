package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
	"github.com/google/uuid"
)

// ErrSuggestionFailed wraps engine errors such as malformed settings or placements.
var ErrSuggestionFailed = errors.New("could not generate suggestions")

// SuggestSlotsQuery asks for ranked slots for one task.
type SuggestSlotsQuery struct {
	UserID uuid.UUID
	TaskID uuid.UUID
}

// SuggestSlotsResult holds the ranked suggestions for one task.
type SuggestSlotsResult struct {
	TaskID      uuid.UUID
	Title       string
	Priority    string
	Suggestions []SuggestionDTO
}

// SuggestSlotsHandler handles the SuggestSlotsQuery.
type SuggestSlotsHandler struct {
	taskRepo task.Finder
	settings SettingsProvider
	engine   *services.SuggestionEngine
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewSuggestSlotsHandler creates a new SuggestSlotsHandler.
func NewSuggestSlotsHandler(
	taskRepo task.Finder,
	settings SettingsProvider,
	engine *services.SuggestionEngine,
	metrics observability.Metrics,
	logger *slog.Logger,
) *SuggestSlotsHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestSlotsHandler{
		taskRepo: taskRepo,
		settings: settings,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle loads the task, the user's tasks and settings, and ranks slots for the task.
func (h *SuggestSlotsHandler) Handle(ctx context.Context, query SuggestSlotsQuery) (*SuggestSlotsResult, error) {
	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "schedule.suggest", func() (*SuggestSlotsResult, error) {
		target, err := h.taskRepo.FindByID(ctx, query.TaskID)
		if err != nil {
			return nil, err
		}
		if err := target.CheckOwner(query.UserID); err != nil {
			return nil, err
		}

		allTasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
		if err != nil {
			return nil, err
		}

		settings, err := h.settings.Get(ctx, query.UserID)
		if err != nil {
			return nil, err
		}

		suggestions, err := suggestFor(h.engine, h.metrics, ToSchedulable(target), ToSchedulables(allTasks), settings)
		if err != nil {
			return nil, err
		}

		return &SuggestSlotsResult{
			TaskID:      target.ID(),
			Title:       target.Title(),
			Priority:    target.Priority().String(),
			Suggestions: suggestions,
		}, nil
	})
}

// suggestFor runs the engine for one task and records suggestion metrics.
func suggestFor(
	engine *services.SuggestionEngine,
	metrics observability.Metrics,
	target services.SchedulableTask,
	allTasks []services.SchedulableTask,
	settings domain.UserSettings,
) ([]SuggestionDTO, error) {
	suggestions, err := engine.SuggestSlots(target, allTasks, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSuggestionFailed, err)
	}

	metrics.Counter(observability.MetricSuggestionsGenerated, int64(len(suggestions)))
	if len(suggestions) == 0 {
		metrics.Counter(observability.MetricSuggestionsEmpty, 1)
	} else {
		metrics.Histogram(observability.MetricSuggestionTopScore, float64(suggestions[0].Score))
	}

	return toSuggestionDTOs(suggestions), nil
}
