package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	"github.com/felixgeelhaar/studyflow/pkg/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds the number of tasks ranked at once.
const DefaultBatchConcurrency = 4

// SuggestBatchQuery asks for suggestions for every pending, unplaced high-priority task.
type SuggestBatchQuery struct {
	UserID uuid.UUID
}

// SuggestBatchHandler handles the SuggestBatchQuery.
type SuggestBatchHandler struct {
	taskRepo    task.Finder
	settings    SettingsProvider
	engine      *services.SuggestionEngine
	metrics     observability.Metrics
	logger      *slog.Logger
	concurrency int
}

// NewSuggestBatchHandler creates a new SuggestBatchHandler.
func NewSuggestBatchHandler(
	taskRepo task.Finder,
	settings SettingsProvider,
	engine *services.SuggestionEngine,
	metrics observability.Metrics,
	logger *slog.Logger,
) *SuggestBatchHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestBatchHandler{
		taskRepo:    taskRepo,
		settings:    settings,
		engine:      engine,
		metrics:     metrics,
		logger:      logger,
		concurrency: DefaultBatchConcurrency,
	}
}

// Handle ranks slots for each candidate task independently. Results keep the
// repository order of the pending task list. Each task is ranked against the
// same snapshot, so batch suggestions may collide with each other.
func (h *SuggestBatchHandler) Handle(ctx context.Context, query SuggestBatchQuery) ([]SuggestSlotsResult, error) {
	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "schedule.suggest_all", func() ([]SuggestSlotsResult, error) {
		pending, err := h.taskRepo.FindPending(ctx, query.UserID)
		if err != nil {
			return nil, err
		}

		candidates := make([]*task.Task, 0, len(pending))
		for _, t := range pending {
			if t.Priority() == value_objects.PriorityHigh && !t.IsScheduled() {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			return []SuggestSlotsResult{}, nil
		}

		allTasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
		if err != nil {
			return nil, err
		}
		settings, err := h.settings.Get(ctx, query.UserID)
		if err != nil {
			return nil, err
		}
		snapshot := ToSchedulables(allTasks)

		results := make([]SuggestSlotsResult, len(candidates))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(h.concurrency)

		for i, t := range candidates {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				suggestions, err := suggestFor(h.engine, h.metrics, ToSchedulable(t), snapshot, settings)
				if err != nil {
					return err
				}
				results[i] = SuggestSlotsResult{
					TaskID:      t.ID(),
					Title:       t.Title(),
					Priority:    t.Priority().String(),
					Suggestions: suggestions,
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	})
}
