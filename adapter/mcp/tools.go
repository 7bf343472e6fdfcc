package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterTools registers the task, scheduling and settings tools.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerTaskTools(srv, deps); err != nil {
		return err
	}
	if err := registerScheduleTools(srv, deps); err != nil {
		return err
	}
	if err := registerSettingsTools(srv, deps); err != nil {
		return err
	}

	return nil
}
