package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for common study planning workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("plan_study_week").
		Description("Place the week's important tasks into good time slots.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly study planning",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me plan my study week. Please:

1. Read my work hours and peak hours from the studyflow://settings resource
2. Review my open tasks using the studyflow://tasks/unscheduled resource
3. Call schedule.suggest_all to get ranked slots for my high priority tasks

For each suggested task:
- Pick the highest scoring slot that does not collide with a slot you already picked
- Prefer peak-hour slots for tasks due within two days
- Ask me before calling schedule.accept

Finish with a short day-by-day summary of what is now on my calendar.`,
						},
					},
				},
			}, nil
		})

	return nil
}
