package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Manage your color palette",
	RunE:  runColorsList,
}

var colorsAddCmd = &cobra.Command{
	Use:   "add [name] [hex]",
	Short: "Add a color to the palette",
	Long: `Add a named color to your palette.

Examples:
  daygrid colors add rose "#FCA5A5"`,
	Args: cobra.ExactArgs(2),
	RunE: runColorsAdd,
}

var colorsDeleteCmd = &cobra.Command{
	Use:     "delete [color-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a color from the palette",
	Args:    cobra.ExactArgs(1),
	RunE:    runColorsDelete,
}

var colorsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every task's color to the default",
	RunE:  runColorsReset,
}

func init() {
	colorsCmd.AddCommand(colorsAddCmd)
	colorsCmd.AddCommand(colorsDeleteCmd)
	colorsCmd.AddCommand(colorsResetCmd)
}

func runColorsList(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	colors, err := api.Colors()
	if err != nil {
		return fmt.Errorf("failed to list colors: %w", err)
	}

	if len(colors) == 0 {
		fmt.Println("No colors yet. Add one with: daygrid colors add rose \"#FCA5A5\"")
		return nil
	}

	for _, c := range colors {
		fmt.Printf("  #%-6d %-16s %s\n", c.ID, c.Name, c.Hex)
	}
	return nil
}

func runColorsAdd(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	color, err := api.CreateColor(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to add color: %w", err)
	}

	fmt.Printf("✓ Added color #%d: %s %s\n", color.ID, color.Name, color.Hex)
	return nil
}

func runColorsDelete(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	if err := api.DeleteColor(id); err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}

	fmt.Printf("🗑️  Deleted color #%d\n", id)
	return nil
}

func runColorsReset(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	if err := api.ResetTaskColors(); err != nil {
		return fmt.Errorf("failed to reset colors: %w", err)
	}

	fmt.Println("✓ All task colors reset to default.")
	return nil
}
