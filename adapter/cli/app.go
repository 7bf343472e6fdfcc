package cli

import (
	"errors"

	"github.com/felixgeelhaar/studyflow/internal/identity/application/settings"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/commands"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
	scheduleCommands "github.com/felixgeelhaar/studyflow/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
	"github.com/google/uuid"
)

// ErrNotInitialized is returned by commands run before SetApp.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	// Task handlers
	CreateTaskHandler     *commands.CreateTaskHandler
	CompleteTaskHandler   *commands.CompleteTaskHandler
	UnscheduleTaskHandler *commands.UnscheduleTaskHandler
	ListTasksHandler      *queries.ListTasksHandler
	GetTaskHandler        *queries.GetTaskHandler

	// Scheduling handlers
	SuggestSlotsHandler       *scheduleQueries.SuggestSlotsHandler
	SuggestBatchHandler       *scheduleQueries.SuggestBatchHandler
	FindAvailableSlotsHandler *scheduleQueries.FindAvailableSlotsHandler
	AcceptSuggestionHandler   *scheduleCommands.AcceptSuggestionHandler

	// Settings
	SettingsService *settings.Service

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
