package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var availableDate string

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List open slots for a day",
	Long: `List the open slots of your work day on a date.

Examples:
  studyflow schedule available
  studyflow schedule available --date 2025-03-11`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		date, err := parseDate(availableDate)
		if err != nil {
			return err
		}

		slots, err := app.FindAvailableSlotsHandler.Handle(cmd.Context(), queries.FindAvailableSlotsQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return fmt.Errorf("failed to find slots: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, slots)
		}
		if len(slots) == 0 {
			fmt.Fprintf(out, "No open slots on %s.\n", date.Format(dateLayout))
			return nil
		}

		fmt.Fprintf(out, "Open slots on %s (%d):\n", date.Format("Mon "+dateLayout), len(slots))
		for _, s := range slots {
			peak := ""
			if s.IsPeak {
				peak = " (peak)"
			}
			fmt.Fprintf(out, "  %s-%s%s\n", s.StartTime, s.EndTime, peak)
		}
		return nil
	},
}

func init() {
	availableCmd.Flags().StringVar(&availableDate, "date", "", "date (YYYY-MM-DD, default today)")
}
