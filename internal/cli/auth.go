package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the daygrid server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the server",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)
}

func promptLine(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	email := promptLine("Email: ")
	password := promptPassword("Password: ")

	fmt.Println("🔄 Logging in...")
	if err := api.Login(email, password); err != nil {
		return err
	}

	fmt.Printf("✅ Logged in as %s\n", api.Username())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	if !api.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := api.Logout(); err != nil {
		return err
	}

	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	username := promptLine("Username: ")
	email := promptLine("Email: ")
	password := promptPassword("Password: ")
	confirm := promptPassword("Confirm Password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if _, err := api.Register(username, email, password); err != nil {
		return err
	}
	if err := api.Login(email, password); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	if !api.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	user, err := api.Profile()
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s> @ %s\n", user.Username, user.Email, api.ServerURL())
	return nil
}
