package cli

import (
	internalApp "github.com/felixgeelhaar/studyflow/internal/app"
)

// NewAppFromContainer exposes the container's handlers to the command tree.
func NewAppFromContainer(c *internalApp.Container) *App {
	return &App{
		CreateTaskHandler:         c.CreateTaskHandler,
		CompleteTaskHandler:       c.CompleteTaskHandler,
		UnscheduleTaskHandler:     c.UnscheduleTaskHandler,
		ListTasksHandler:          c.ListTasksHandler,
		GetTaskHandler:            c.GetTaskHandler,
		SuggestSlotsHandler:       c.SuggestSlotsHandler,
		SuggestBatchHandler:       c.SuggestBatchHandler,
		FindAvailableSlotsHandler: c.FindAvailableSlotsHandler,
		AcceptSuggestionHandler:   c.AcceptSuggestionHandler,
		SettingsService:           c.SettingsService,
		CurrentUserID:             c.UserID,
	}
}
