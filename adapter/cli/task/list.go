package task

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var (
	showAll         bool
	unscheduledOnly bool
	filterPriority  string
	overdue         bool
	sortBy          string
	limit           int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Examples:
  studyflow task list                    # Open tasks
  studyflow task list --all              # Including completed tasks
  studyflow task list --unscheduled      # Tasks without a placement
  studyflow task list --priority high    # Only high priority
  studyflow task list --overdue          # Past their due date
  studyflow task list --sort due_date -n 5`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			UserID:           app.CurrentUserID,
			IncludeCompleted: showAll,
			UnscheduledOnly:  unscheduledOnly,
			Priority:         filterPriority,
			Overdue:          overdue,
			SortBy:           sortBy,
			Limit:            limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, tasks)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		now := time.Now()
		for _, t := range tasks {
			printTask(out, t, now)
			fmt.Fprintln(out)
		}
		return nil
	},
}

func printTask(out io.Writer, t queries.TaskDTO, now time.Time) {
	dueMarker := ""
	if t.DueDate != nil && t.Status != "completed" {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		switch {
		case t.DueDate.Before(today):
			dueMarker = " [OVERDUE]"
		case t.DueDate.Before(today.AddDate(0, 0, 1)):
			dueMarker = " [TODAY]"
		}
	}

	fmt.Fprintf(out, "%s %s %s%s\n", statusIcon(t.Status), t.Title, priorityBadge(t.Priority), dueMarker)
	fmt.Fprintf(out, "   ID: %s\n", t.ID)
	if t.DueDate != nil {
		fmt.Fprintf(out, "   Due: %s\n", t.DueDate.Format("2006-01-02"))
	}
	if t.IsScheduled() {
		fmt.Fprintf(out, "   Scheduled: %s %s-%s\n",
			t.ScheduledDate.Format("Mon 2006-01-02"), t.ScheduledStartTime, t.ScheduledEndTime)
	}
}

func statusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "archived":
		return "[-]"
	default:
		return "[ ]"
	}
}

func priorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	listCmd.Flags().BoolVarP(&showAll, "all", "a", false, "include completed tasks")
	listCmd.Flags().BoolVar(&unscheduledOnly, "unscheduled", false, "show only tasks without a placement")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (high, medium, low)")
	listCmd.Flags().BoolVar(&overdue, "overdue", false, "show only overdue tasks")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "sort by field (priority, due_date)")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
