package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
)

type scheduleSuggestInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type scheduleAcceptInput struct {
	TaskID    string `json:"task_id" jsonschema:"required"`
	Date      string `json:"date" jsonschema:"required"`
	StartTime string `json:"start_time" jsonschema:"required"`
	EndTime   string `json:"end_time" jsonschema:"required"`
}

type scheduleAvailableInput struct {
	Date string `json:"date,omitempty"`
}

type suggestionOutput struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsPeak    bool   `json:"is_peak"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

type taskSuggestionsOutput struct {
	TaskID      string             `json:"task_id"`
	Title       string             `json:"title"`
	Priority    string             `json:"priority"`
	Suggestions []suggestionOutput `json:"suggestions"`
}

type slotOutput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsPeak    bool   `json:"is_peak"`
}

func toTaskSuggestionsOutput(r queries.SuggestSlotsResult) taskSuggestionsOutput {
	out := taskSuggestionsOutput{
		TaskID:      r.TaskID.String(),
		Title:       r.Title,
		Priority:    r.Priority,
		Suggestions: make([]suggestionOutput, 0, len(r.Suggestions)),
	}
	for _, s := range r.Suggestions {
		out.Suggestions = append(out.Suggestions, suggestionOutput{
			Date:      s.Date.Format(dateLayout),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			IsPeak:    s.IsPeak,
			Score:     s.Score,
			Reason:    s.Reason,
		})
	}
	return out
}

func registerScheduleTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("schedule.suggest").
		Description("Rank open time slots in the coming days for a task").
		Handler(func(ctx context.Context, input scheduleSuggestInput) (*taskSuggestionsOutput, error) {
			ctx = toolContext(ctx, app)
			return suggestSlots(ctx, app, input)
		})

	srv.Tool("schedule.suggest_all").
		Description("Suggest time slots for every unscheduled high priority task").
		Handler(func(ctx context.Context, input struct{}) ([]taskSuggestionsOutput, error) {
			ctx = toolContext(ctx, app)
			return suggestAll(ctx, app)
		})

	srv.Tool("schedule.accept").
		Description("Place a task into a suggested time slot").
		Handler(func(ctx context.Context, input scheduleAcceptInput) (map[string]any, error) {
			ctx = toolContext(ctx, app)
			return acceptSuggestion(ctx, app, input)
		})

	srv.Tool("schedule.available").
		Description("List open slots of the work day on a date (default today)").
		Handler(func(ctx context.Context, input scheduleAvailableInput) ([]slotOutput, error) {
			ctx = toolContext(ctx, app)
			return availableSlots(ctx, app, input)
		})

	return nil
}

func suggestSlots(ctx context.Context, app *cli.App, input scheduleSuggestInput) (*taskSuggestionsOutput, error) {
	if app.SuggestSlotsHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}

	result, err := app.SuggestSlotsHandler.Handle(ctx, queries.SuggestSlotsQuery{
		UserID: app.CurrentUserID,
		TaskID: taskID,
	})
	if err != nil {
		return nil, err
	}
	out := toTaskSuggestionsOutput(*result)
	return &out, nil
}

func suggestAll(ctx context.Context, app *cli.App) ([]taskSuggestionsOutput, error) {
	if app.SuggestBatchHandler == nil {
		return nil, cli.ErrNotInitialized
	}

	results, err := app.SuggestBatchHandler.Handle(ctx, queries.SuggestBatchQuery{UserID: app.CurrentUserID})
	if err != nil {
		return nil, err
	}

	out := make([]taskSuggestionsOutput, 0, len(results))
	for _, r := range results {
		out = append(out, toTaskSuggestionsOutput(r))
	}
	return out, nil
}

func acceptSuggestion(ctx context.Context, app *cli.App, input scheduleAcceptInput) (map[string]any, error) {
	if app.AcceptSuggestionHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if input.Date == "" {
		return nil, errors.New("date is required")
	}
	date, err := parseDate(input.Date, today())
	if err != nil {
		return nil, err
	}

	result, err := app.AcceptSuggestionHandler.Handle(ctx, commands.AcceptSuggestionCommand{
		UserID:    app.CurrentUserID,
		TaskID:    taskID,
		Date:      date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err != nil {
		return nil, fmt.Errorf("accept failed: %w", err)
	}

	return map[string]any{
		"task_id":    result.TaskID.String(),
		"date":       result.Date.Format(dateLayout),
		"start_time": result.StartTime,
		"end_time":   result.EndTime,
		"scheduled":  true,
	}, nil
}

func availableSlots(ctx context.Context, app *cli.App, input scheduleAvailableInput) ([]slotOutput, error) {
	if app.FindAvailableSlotsHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	date, err := parseDate(input.Date, today())
	if err != nil {
		return nil, err
	}

	slots, err := app.FindAvailableSlotsHandler.Handle(ctx, queries.FindAvailableSlotsQuery{
		UserID: app.CurrentUserID,
		Date:   date,
	})
	if err != nil {
		return nil, err
	}

	out := make([]slotOutput, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotOutput{StartTime: s.StartTime, EndTime: s.EndTime, IsPeak: s.IsPeak})
	}
	return out, nil
}
