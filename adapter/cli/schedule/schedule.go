package schedule

import (
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/studyflow/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Find and accept time slots for tasks",
	Long: `Suggest good times to work on a task, list open slots for a day,
and accept a suggestion onto the task.`,
}

const dateLayout = "2006-01-02"

func init() {
	Cmd.AddCommand(suggestCmd)
	Cmd.AddCommand(acceptCmd)
	Cmd.AddCommand(availableCmd)
}

// parseDate reads YYYY-MM-DD in local time; empty means today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	d, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", value, err)
	}
	return d, nil
}

func printSuggestions(out io.Writer, result queries.SuggestSlotsResult) {
	fmt.Fprintf(out, "%s (%s)\n", result.Title, result.Priority)
	if len(result.Suggestions) == 0 {
		fmt.Fprintln(out, "  No free slots in the next days.")
		return
	}
	for i, s := range result.Suggestions {
		peak := ""
		if s.IsPeak {
			peak = " *"
		}
		fmt.Fprintf(out, "  %d. %s %s-%s  score %3d%s  %s\n",
			i+1, s.Date.Format("Mon "+dateLayout), s.StartTime, s.EndTime, s.Score, peak, s.Reason)
	}
}
