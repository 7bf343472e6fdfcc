package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, list, complete, and unschedule your study tasks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(unscheduleCmd)
	Cmd.AddCommand(showCmd)
}
