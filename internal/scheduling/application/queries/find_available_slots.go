package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/productivity/domain/task"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// FindAvailableSlotsQuery contains the parameters for finding available slots.
type FindAvailableSlotsQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// FindAvailableSlotsHandler handles the FindAvailableSlotsQuery.
type FindAvailableSlotsHandler struct {
	taskRepo task.Finder
	settings SettingsProvider
	engine   *services.SuggestionEngine
}

// NewFindAvailableSlotsHandler creates a new FindAvailableSlotsHandler.
func NewFindAvailableSlotsHandler(taskRepo task.Finder, settings SettingsProvider, engine *services.SuggestionEngine) *FindAvailableSlotsHandler {
	return &FindAvailableSlotsHandler{
		taskRepo: taskRepo,
		settings: settings,
		engine:   engine,
	}
}

// Handle returns the open slots of the user's work day on query.Date.
func (h *FindAvailableSlotsHandler) Handle(ctx context.Context, query FindAvailableSlotsQuery) ([]TimeSlotDTO, error) {
	tasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	settings, err := h.settings.Get(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	slots, err := h.engine.FindAvailableSlots(query.Date, ToSchedulables(tasks), settings)
	if err != nil {
		return nil, fmt.Errorf("find available slots: %w", err)
	}

	return toSlotDTOs(slots), nil
}
