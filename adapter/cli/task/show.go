package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, t)
		}
		printTask(out, *t, time.Now())
		if t.Description != "" {
			fmt.Fprintf(out, "   %s\n", t.Description)
		}
		return nil
	},
}
