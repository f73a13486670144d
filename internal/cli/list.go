package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks for a day or a month. Defaults to the current month.

Examples:
  daygrid list
  daygrid list --date 2026-09-03
  daygrid list --year 2026 --month 9`,
	RunE: runList,
}

var (
	listDate  string
	listYear  int
	listMonth int
)

func init() {
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "Single day (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listYear, "year", 0, "Year of the month to list")
	listCmd.Flags().IntVar(&listMonth, "month", 0, "Month to list (1-12)")
}

func runList(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	if listDate != "" {
		date, err := calendar.ParseDateKey(listDate)
		if err != nil {
			return err
		}
		tasks, err := api.TasksForDate(date)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		calendar.SortDay(tasks)
		printDay(calendar.DateKey(date), tasks)
		return nil
	}

	month := calendar.MonthOf(time.Now())
	if listYear != 0 || listMonth != 0 {
		if listYear == 0 || listMonth < 1 || listMonth > 12 {
			return fmt.Errorf("both --year and --month (1-12) are required")
		}
		month = calendar.Month{Year: listYear, Month: time.Month(listMonth)}
	}

	tasks, err := api.TasksForMonth(month)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Printf("No tasks in %s. Add one with: daygrid add \"Your task\"\n", month)
		return nil
	}

	byDay := calendar.Bucket(tasks)
	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("\n🗓  %s (%d tasks)\n", month, len(tasks))
	for _, key := range keys {
		printDay(key, byDay[key])
	}
	return nil
}

func printDay(key string, tasks []model.Task) {
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}

	fmt.Printf("\n%s (%d pending)\n", key, pending)
	fmt.Println(strings.Repeat("─", 60))

	if len(tasks) == 0 {
		fmt.Println("  (no tasks)")
		return
	}
	for _, t := range tasks {
		printTask(t)
	}
}

func printTask(t model.Task) {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}

	text := t.Text
	if len(text) > 40 {
		text = text[:37] + "..."
	}

	extra := ""
	if t.Color != "" && t.Color != model.DefaultTaskColor {
		extra += "  " + t.Color
	}
	if t.HasImage() {
		extra += "  🖼"
	}

	fmt.Printf("  %s  #%-6d %-40s%s\n", icon, t.ID, text, extra)
}
