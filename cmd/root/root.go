// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input          string
	Output         string
	Format         string
	Classification string
	LogLevel       string
	LogFormat      string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for subcommands
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-rollup",
		Short: "A CLI tool to aggregate budget execution line items into chapter breakdowns.",
		Long: `budget-rollup groups budget execution line items (expenses and income)
into a chapter / subchapter / functional / economic hierarchy, filters it with
an accent-insensitive search and renders it as a table, JSON, CSV or XLSX.
It can also serve the breakdowns over HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-rollup!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close container: %v", err)
			}
		},
	}

	// SharedFlags holds the persistent flags of the root command
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Line item file (.csv or .json)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "table", "Output format: table, json, csv or xlsx")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Classification, "classification", "", "Classification names file (overrides classification.functional_file)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides log.level)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format: text or json (overrides log.format)")
}

func initialize(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	ApplyFlags(cfg, SharedFlags)

	Log = config.ConfigureLoggingFromConfig(cfg)
	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return fmt.Errorf("error initializing dependencies: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log.WithField("command", cmd.Name()).Debug("Initialized command")
	return nil
}

// ApplyFlags copies explicitly set flags over the loaded configuration.
func ApplyFlags(cfg *config.Config, flags CommonFlags) {
	if flags.Classification != "" {
		cfg.Classification.FunctionalFile = flags.Classification
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.Input != "" {
		cfg.Input.File = flags.Input
	}
}

// GetContainer returns the container built for the running command, or nil
// before the root command has initialized.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogrusAdapter returns the shared logger behind the module's Logger interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
