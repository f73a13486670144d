package cli

import (
	"fmt"

	"github.com/existflow/daygrid/internal/client"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account",
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show your profile, or update it with flags.

Examples:
  daygrid account profile
  daygrid account profile --username newname
  daygrid account profile --email new@example.com`,
	RunE: runProfile,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	RunE:  runPasswd,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account and all its tasks",
	RunE:  runAccountDelete,
}

var (
	profileUsername string
	profileEmail    string
)

func init() {
	profileCmd.Flags().StringVar(&profileUsername, "username", "", "New username")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email")

	accountCmd.AddCommand(profileCmd)
	accountCmd.AddCommand(passwdCmd)
	accountCmd.AddCommand(accountDeleteCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	var update client.ProfileUpdate
	if cmd.Flags().Changed("username") {
		update.Username = &profileUsername
	}
	if cmd.Flags().Changed("email") {
		update.Email = &profileEmail
	}

	if update.Username != nil || update.Email != nil {
		user, err := api.UpdateProfile(update)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Profile updated: %s <%s>\n", user.Username, user.Email)
		return nil
	}

	user, err := api.Profile()
	if err != nil {
		return err
	}
	fmt.Printf("Username: %s\nEmail:    %s\n", user.Username, user.Email)
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	oldPassword := promptPassword("Current password: ")
	newPassword := promptPassword("New password: ")
	confirm := promptPassword("Confirm new password: ")

	if newPassword != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := api.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}

	fmt.Println("✅ Password changed.")
	return nil
}

func runAccountDelete(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	fmt.Println("This deletes your account and every task on it. There is no undo.")
	confirm := promptLine("Type your email to confirm: ")

	user, err := api.Profile()
	if err != nil {
		return err
	}
	if confirm != user.Email {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := api.DeleteAccount(); err != nil {
		return err
	}

	fmt.Println("🗑️  Account deleted.")
	return nil
}
