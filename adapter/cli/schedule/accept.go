package schedule

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	acceptDate  string
	acceptStart string
	acceptEnd   string
)

var acceptCmd = &cobra.Command{
	Use:   "accept [task-id]",
	Short: "Place a task into a time slot",
	Long: `Write a chosen slot onto the task.

Examples:
  studyflow schedule accept 550e8400-e29b-41d4-a716-446655440000 --date 2025-03-11 --start 10:00 --end 10:30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}
		if acceptStart == "" || acceptEnd == "" {
			return errors.New("missing --start or --end")
		}
		date, err := parseDate(acceptDate)
		if err != nil {
			return err
		}

		result, err := app.AcceptSuggestionHandler.Handle(cmd.Context(), commands.AcceptSuggestionCommand{
			UserID:    app.CurrentUserID,
			TaskID:    taskID,
			Date:      date,
			StartTime: acceptStart,
			EndTime:   acceptEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to accept slot: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, result)
		}
		fmt.Fprintf(out, "Scheduled %s on %s %s-%s\n",
			result.TaskID, result.Date.Format("Mon "+dateLayout), result.StartTime, result.EndTime)
		return nil
	},
}

func init() {
	acceptCmd.Flags().StringVar(&acceptDate, "date", "", "date (YYYY-MM-DD, default today)")
	acceptCmd.Flags().StringVar(&acceptStart, "start", "", "start time (HH:MM)")
	acceptCmd.Flags().StringVar(&acceptEnd, "end", "", "end time (HH:MM)")
}
