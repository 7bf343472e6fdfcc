package task

import (
	"fmt"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as complete",
	Long: `Mark a task as complete by its ID.

Examples:
  studyflow task done 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		err = app.CompleteTaskHandler.Handle(cmd.Context(), commands.CompleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s\n", taskID)
		return nil
	},
}

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule [task-id]",
	Short: "Remove a task's calendar placement",
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

		err = app.UnscheduleTaskHandler.Handle(cmd.Context(), commands.UnscheduleTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to unschedule task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task unscheduled: %s\n", taskID)
		return nil
	},
}
