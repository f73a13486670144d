package cli

import (
	"fmt"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy [task-id] [date]",
	Short: "Copy a task to another day",
	Long: `Copy a task to another day. The copy keeps the text and color but
starts incomplete and without the image.

Examples:
  daygrid copy 42 2026-09-12`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	date, err := calendar.ParseDateKey(args[1])
	if err != nil {
		return err
	}

	dup, err := api.DuplicateTask(id, date)
	if err != nil {
		return fmt.Errorf("failed to copy task: %w", err)
	}

	fmt.Printf("✓ Copied to %s as #%d: \"%s\"\n", args[1], dup.ID, dup.Text)
	return nil
}
