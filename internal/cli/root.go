package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionsage/internal/ai"
	"optionsage/internal/config"
	"optionsage/internal/logging"
	"optionsage/internal/market"
	"optionsage/internal/store"
	"optionsage/internal/summary"
	"optionsage/internal/wizard"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Gateway ai.Gateway
	Market  *market.Client

	Summaries *summary.Manager
	Wizard    *wizard.Wizard
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.DBPath(config.DefaultConfigDir()), logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	if cfg.HasOpenAI() {
		llm := ai.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.AI.Model)
		app.Gateway = ai.NewLLMGateway(llm, logger)
		logger.Debug().Str("model", cfg.AI.Model).Msg("AI gateway initialized")
	}

	if cfg.HasTradier() {
		app.Market = market.NewClient(cfg.Credentials.Tradier.APIKey, logger)
		logger.Debug().Msg("Tradier market client initialized")
	}

	if app.Store != nil && app.Gateway != nil {
		app.Summaries = summary.NewManager(app.Store, app.Gateway, logger)
		app.Wizard = wizard.New(app.Store, app.Gateway, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "optionsage",
		Short: "OptionSage - AI study companion for options trading education",
		Long: `OptionSage is a local-first study companion for the OptionsANIMAL
options trading curriculum.

It generates AI study guides from class transcripts and slide decks, walks you
through the 6-step trading plan process with an AI coach review, tracks your
progress across the 8 curriculum levels, and keeps a research watchlist backed
by Tradier market data.

All data lives in a local database; use 'optionsage backup' to move it
between machines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionsage)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addProfileCommands(rootCmd, app)
	addLibraryCommands(rootCmd, app)
	addStudyCommands(rootCmd, app)
	addPlanCommands(rootCmd, app)
	addWatchlistCommands(rootCmd, app)
	addBackupCommands(rootCmd, app)

	return rootCmd
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("OptionSage v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("OptionSage configuration")
			output.Printf("  AI model:        %s\n", app.Config.AI.Model)
			output.Printf("  AI temperature:  %.1f\n", app.Config.AI.Temperature)
			output.Printf("  Database:        %s\n", app.Config.DBPath(config.DefaultConfigDir()))
			output.Printf("  OpenAI key:      %s\n", maskConfigured(app.Config.HasOpenAI()))
			output.Printf("  Tradier key:     %s\n", maskConfigured(app.Config.HasTradier()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Println(config.DefaultConfigDir())
		},
	})

	return cmd
}

func maskConfigured(set bool) string {
	if set {
		return "configured"
	}
	return "not set"
}
