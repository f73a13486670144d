package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed.

Examples:
  daygrid done 42
  daygrid done 42 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	return id, nil
}

func runDone(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := api.SetCompleted(id, !doneUndo)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if task.Completed {
		fmt.Printf("✓ Completed: \"%s\"\n", task.Text)
	} else {
		fmt.Printf("○ Reopened: \"%s\"\n", task.Text)
	}
	return nil
}
