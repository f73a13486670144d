package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/daygrid/internal/client"
	"github.com/existflow/daygrid/internal/config"
	"github.com/existflow/daygrid/internal/kv"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/tui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "daygrid",
	Short: "daygrid - calendar task tracker",
	Long: `daygrid is a terminal calendar that tracks tasks per day against a
daygrid server, with per-day colors kept locally.

Run 'daygrid' without arguments to launch the interactive calendar.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:    logger.ParseLevel(cfg.LogLevel),
			FilePath: cfg.LogFile,
			MaxSize:  10 * 1024 * 1024, // 10MB
			Console:  cfg.LogConsole,
		}
		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("daygrid started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		if !api.IsLoggedIn() {
			return fmt.Errorf("not logged in, run 'daygrid auth login' first")
		}

		dayColors, err := openDayColors()
		if err != nil {
			return fmt.Errorf("failed to open day colors: %w", err)
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(api, dayColors)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("daygrid exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// newAPIClient builds the API client, honoring the --server flag.
func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	api, err := client.NewClient()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("server") {
		if err := api.SetServer(serverURL); err != nil {
			return nil, err
		}
	}
	return api, nil
}

// openDayColors opens the local day color store under ~/.daygrid.
func openDayColors() (kv.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return kv.OpenFile(filepath.Join(dir, "daycolors.json"))
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(paintCmd)
}
