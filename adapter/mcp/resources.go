package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers read-only views of the user's tasks and settings.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("studyflow://tasks/unscheduled").
		Name("Unscheduled tasks").
		Description("Open tasks without a calendar placement").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			tasks, err := listTasks(ctx, app, taskListInput{UnscheduledOnly: true, SortBy: "priority"})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	srv.Resource("studyflow://settings").
		Name("Settings").
		Description("Work hours and peak hours used for suggestions").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			s, err := showSettings(ctx, app)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, s)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
