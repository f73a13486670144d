package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage task image attachments",
}

var imageGetCmd = &cobra.Command{
	Use:   "get [task-id]",
	Short: "Download a task's image",
	Long: `Download a task's image attachment to a file.

Examples:
  daygrid image get 42
  daygrid image get 42 -o photo.png`,
	Args: cobra.ExactArgs(1),
	RunE: runImageGet,
}

var imageRmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Remove a task's image",
	Args:  cobra.ExactArgs(1),
	RunE:  runImageRm,
}

var imageOutput string

func init() {
	imageGetCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "Output file (defaults to task-<id>)")

	imageCmd.AddCommand(imageGetCmd)
	imageCmd.AddCommand(imageRmCmd)
}

func runImageGet(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	data, err := api.TaskImage(id)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}

	out := imageOutput
	if out == "" {
		out = fmt.Sprintf("task-%d", id)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("✓ Saved image to %s (%d bytes)\n", out, len(data))
	return nil
}

func runImageRm(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	if err := api.DeleteTaskImage(id); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	fmt.Printf("🗑️  Removed image from task #%d\n", id)
	return nil
}
