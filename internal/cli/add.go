package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task to a day",
	Long: `Add a task to a calendar day. Defaults to today.

Examples:
  daygrid add "Buy groceries"
  daygrid add "Team meeting" --date 2026-09-03
  daygrid add "Trip" --date 2026-09-12 --color "#BFDBFE" --image trip.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDate  string
	addColor string
	addImage string
)

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Day (YYYY-MM-DD), defaults to today")
	addCmd.Flags().StringVarP(&addColor, "color", "c", "", "Task color (#RRGGBB)")
	addCmd.Flags().StringVarP(&addImage, "image", "i", "", "Image file to attach")
}

// resolveDate parses a --date flag, defaulting to today.
func resolveDate(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now().UTC(), nil
	}
	return calendar.ParseDateKey(flag)
}

func runAdd(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	date, err := resolveDate(addDate)
	if err != nil {
		return err
	}

	if addImage != "" {
		created, err := api.CreateTaskWithImage(date, text, addColor, addImage)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		fmt.Printf("✓ Added #%d to %s: \"%s\" (with image)\n", created.ID, calendar.DateKey(date), text)
		return nil
	}

	created, err := api.CreateTask(date, text, addColor)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Added #%d to %s: \"%s\"\n", created.ID, calendar.DateKey(date), text)
	return nil
}
