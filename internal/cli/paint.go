package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/existflow/daygrid/internal/calendar"
	"github.com/spf13/cobra"
)

var paintCmd = &cobra.Command{
	Use:   "paint [date] [hex]",
	Short: "Set a day's background color",
	Long: `Set a background color for a calendar day. Day colors are a purely
local decoration kept in ~/.daygrid and never sent to the server.

Examples:
  daygrid paint 2026-09-03 "#FCA5A5"
  daygrid paint 2026-09-03 --clear
  daygrid paint --list
  daygrid paint --clear-month 2026-09`,
	RunE: runPaint,
}

var (
	paintClear      bool
	paintList       bool
	paintClearMonth string
)

func init() {
	paintCmd.Flags().BoolVar(&paintClear, "clear", false, "Clear the day's color")
	paintCmd.Flags().BoolVar(&paintList, "list", false, "List painted days")
	paintCmd.Flags().StringVar(&paintClearMonth, "clear-month", "", "Clear every painted day in a month (YYYY-MM)")
}

func runPaint(cmd *cobra.Command, args []string) error {
	dayColors, err := openDayColors()
	if err != nil {
		return fmt.Errorf("failed to open day colors: %w", err)
	}

	if paintList {
		keys := dayColors.Keys()
		if len(keys) == 0 {
			fmt.Println("No painted days.")
			return nil
		}
		sort.Strings(keys)
		for _, key := range keys {
			hex, _ := dayColors.Get(key)
			fmt.Printf("  %s  %s\n", key, hex)
		}
		return nil
	}

	if paintClearMonth != "" {
		cleared := 0
		for _, key := range dayColors.Keys() {
			if strings.HasPrefix(key, paintClearMonth+"-") {
				if err := dayColors.Delete(key); err != nil {
					return err
				}
				cleared++
			}
		}
		fmt.Printf("✓ Cleared %d painted days in %s\n", cleared, paintClearMonth)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a date is required")
	}
	if _, err := calendar.ParseDateKey(args[0]); err != nil {
		return err
	}
	key := args[0]

	if paintClear {
		if err := dayColors.Delete(key); err != nil {
			return err
		}
		fmt.Printf("✓ Cleared color on %s\n", key)
		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("a hex color is required, e.g. \"#FCA5A5\"")
	}
	hex := args[1]
	if !strings.HasPrefix(hex, "#") {
		return fmt.Errorf("color must start with #, got %q", hex)
	}

	if err := dayColors.Set(key, hex); err != nil {
		return err
	}
	fmt.Printf("✓ Painted %s %s\n", key, hex)
	return nil
}
