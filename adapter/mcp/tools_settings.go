package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/domain"
)

type settingsUpdateInput struct {
	WorkStartTime  string `json:"work_start_time,omitempty"`
	WorkEndTime    string `json:"work_end_time,omitempty"`
	PeakHoursStart string `json:"peak_hours_start,omitempty"`
	PeakHoursEnd   string `json:"peak_hours_end,omitempty"`
}

func registerSettingsTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("settings.show").
		Description("Show work hours and peak hours").
		Handler(func(ctx context.Context, input struct{}) (*domain.UserSettings, error) {
			ctx = toolContext(ctx, app)
			return showSettings(ctx, app)
		})

	srv.Tool("settings.update").
		Description("Change work hours or peak hours; omitted fields keep their value").
		Handler(func(ctx context.Context, input settingsUpdateInput) (*domain.UserSettings, error) {
			ctx = toolContext(ctx, app)
			return updateSettings(ctx, app, input)
		})

	return nil
}

func showSettings(ctx context.Context, app *cli.App) (*domain.UserSettings, error) {
	if app.SettingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	s, err := app.SettingsService.Get(ctx, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func updateSettings(ctx context.Context, app *cli.App, input settingsUpdateInput) (*domain.UserSettings, error) {
	if app.SettingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	s, err := app.SettingsService.Patch(ctx, app.CurrentUserID, domain.UserSettings{
		WorkStartTime:  input.WorkStartTime,
		WorkEndTime:    input.WorkEndTime,
		PeakHoursStart: input.PeakHoursStart,
		PeakHoursEnd:   input.PeakHoursEnd,
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
