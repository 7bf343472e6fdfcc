package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	priority    string
	description string
	dueDate     string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional properties.

Examples:
  studyflow task add "Read chapter 5"
  studyflow task add "Problem set 3" -p high --due 2025-03-14
  studyflow task add "Flashcards" --priority low --description "Spanish vocab"`,
	Aliases: []string{"create"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		createCmd := commands.CreateTaskCommand{
			UserID:      app.CurrentUserID,
			Title:       args[0],
			Description: description,
			Priority:    priority,
		}

		if dueDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", dueDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.WriteJSON(out, map[string]any{"task_id": result.TaskID, "title": args[0]})
		}

		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", args[0])
		if priority != "" {
			fmt.Fprintf(out, "  priority: %s\n", priority)
		}
		if createCmd.DueDate != nil {
			fmt.Fprintf(out, "  due: %s\n", createCmd.DueDate.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high)")
	addCmd.Flags().StringVar(&description, "description", "", "task description")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
}
