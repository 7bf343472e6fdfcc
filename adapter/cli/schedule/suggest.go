package schedule

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var suggestAll bool

var suggestCmd = &cobra.Command{
	Use:   "suggest [task-id]",
	Short: "Suggest time slots for a task",
	Long: `Rank open slots in the coming days for a task.

Slots marked with * fall within your peak hours.

Examples:
  studyflow schedule suggest 550e8400-e29b-41d4-a716-446655440000
  studyflow schedule suggest --all     # every unscheduled high priority task`,
	Args: func(cmd *cobra.Command, args []string) error {
		if suggestAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if suggestAll {
			results, err := app.SuggestBatchHandler.Handle(cmd.Context(), queries.SuggestBatchQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return err
			}
			if cli.JSONOutput() {
				return cli.WriteJSON(out, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No unscheduled high priority tasks.")
				return nil
			}
			for _, r := range results {
				printSuggestions(out, r)
				fmt.Fprintln(out)
			}
			return nil
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		result, err := app.SuggestSlotsHandler.Handle(cmd.Context(), queries.SuggestSlotsQuery{
			UserID: app.CurrentUserID,
			TaskID: taskID,
		})
		if err != nil {
			if errors.Is(err, queries.ErrSuggestionFailed) {
				return err
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		if cli.JSONOutput() {
			return cli.WriteJSON(out, result)
		}
		printSuggestions(out, *result)
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestAll, "all", false, "suggest for every unscheduled high priority task")
}
