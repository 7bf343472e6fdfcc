package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/commands"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
)

type taskAddInput struct {
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

type taskListInput struct {
	IncludeCompleted bool   `json:"include_completed,omitempty"`
	UnscheduledOnly  bool   `json:"unscheduled_only,omitempty"`
	Priority         string `json:"priority,omitempty"`
	Overdue          bool   `json:"overdue,omitempty"`
	SortBy           string `json:"sort_by,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskOutput struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Status             string `json:"status"`
	Priority           string `json:"priority"`
	DueDate            string `json:"due_date,omitempty"`
	ScheduledDate      string `json:"scheduled_date,omitempty"`
	ScheduledStartTime string `json:"scheduled_start_time,omitempty"`
	ScheduledEndTime   string `json:"scheduled_end_time,omitempty"`
}

func toTaskOutput(t queries.TaskDTO) taskOutput {
	return taskOutput{
		ID:                 t.ID.String(),
		Title:              t.Title,
		Description:        t.Description,
		Status:             t.Status,
		Priority:           t.Priority,
		DueDate:            formatDate(t.DueDate),
		ScheduledDate:      formatDate(t.ScheduledDate),
		ScheduledStartTime: t.ScheduledStartTime,
		ScheduledEndTime:   t.ScheduledEndTime,
	}
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("tasks.add").
		Description("Create a new study task").
		Handler(func(ctx context.Context, input taskAddInput) (map[string]any, error) {
			ctx = toolContext(ctx, app)
			return addTask(ctx, app, input)
		})

	srv.Tool("tasks.list").
		Description("List tasks with filters").
		Handler(func(ctx context.Context, input taskListInput) ([]taskOutput, error) {
			ctx = toolContext(ctx, app)
			return listTasks(ctx, app, input)
		})

	srv.Tool("tasks.complete").
		Description("Mark a task as complete").
		Handler(func(ctx context.Context, input taskIDInput) (map[string]any, error) {
			ctx = toolContext(ctx, app)
			if app.CompleteTaskHandler == nil {
				return nil, cli.ErrNotInitialized
			}
			taskID, err := parseUUID(input.TaskID)
			if err != nil {
				return nil, err
			}
			if err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
				TaskID: taskID,
				UserID: app.CurrentUserID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"task_id": taskID, "completed": true}, nil
		})

	srv.Tool("tasks.unschedule").
		Description("Remove a task's calendar placement").
		Handler(func(ctx context.Context, input taskIDInput) (map[string]any, error) {
			ctx = toolContext(ctx, app)
			if app.UnscheduleTaskHandler == nil {
				return nil, cli.ErrNotInitialized
			}
			taskID, err := parseUUID(input.TaskID)
			if err != nil {
				return nil, err
			}
			if err := app.UnscheduleTaskHandler.Handle(ctx, commands.UnscheduleTaskCommand{
				TaskID: taskID,
				UserID: app.CurrentUserID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"task_id": taskID, "unscheduled": true}, nil
		})

	return nil
}

func addTask(ctx context.Context, app *cli.App, input taskAddInput) (map[string]any, error) {
	if app.CreateTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}

	var due *time.Time
	if input.DueDate != "" {
		parsed, err := parseDate(input.DueDate, time.Time{})
		if err != nil {
			return nil, err
		}
		due = &parsed
	}

	result, err := app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:      app.CurrentUserID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     due,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"task_id": result.TaskID.String(), "title": input.Title}, nil
}

func listTasks(ctx context.Context, app *cli.App, input taskListInput) ([]taskOutput, error) {
	if app.ListTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}

	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		UserID:           app.CurrentUserID,
		IncludeCompleted: input.IncludeCompleted,
		UnscheduledOnly:  input.UnscheduledOnly,
		Priority:         input.Priority,
		Overdue:          input.Overdue,
		SortBy:           input.SortBy,
		Limit:            input.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]taskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskOutput(t))
	}
	return out, nil
}
