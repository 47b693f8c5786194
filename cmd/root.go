/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/nakachan-ing/pitch-cli/internal/analysis"
	"github.com/nakachan-ing/pitch-cli/internal/logger"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pitch",
	Short: "Fill in a startup pitch and compare it with similar startups",
	Long: `pitch walks you through a five-section startup application
(overview, business model, competitors, team, financials), sends it to the
analysis service once it is at least half complete, and shows similar
startups, next-step recommendations and matching micro-grants.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var logLevelFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override log.level (debug, info, warn, error)")
}

// runtimeEnv is what every command that talks to the service needs.
type runtimeEnv struct {
	config *model.Config
	logger *zap.Logger
}

// loadRuntime loads the config and builds the logger. toFile sends logs to
// log.file instead of stderr, for commands that own the terminal.
func loadRuntime(toFile bool) (*runtimeEnv, error) {
	config, err := store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("❌ Error loading config: %w", err)
	}
	if err := overrideLogLevel(config, logLevelFlag); err != nil {
		return nil, fmt.Errorf("❌ Invalid --log-level: %w", err)
	}

	output := ""
	if toFile {
		output = config.Log.File
	}
	l, err := logger.New(config.Log.Level, config.Log.Format, output)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to initialize logger: %w", err)
	}
	return &runtimeEnv{config: config, logger: l}, nil
}

// overrideLogLevel applies a non-empty level and revalidates the config.
func overrideLogLevel(config *model.Config, level string) error {
	if level == "" {
		return nil
	}
	previous := config.Log.Level
	config.Log.Level = level
	if err := config.Validate(); err != nil {
		config.Log.Level = previous
		return err
	}
	return nil
}

func (r *runtimeEnv) analyzer() *analysis.Client {
	return analysis.NewClient(r.config.API.BaseURL, r.config.Timeout(),
		analysis.WithMaxRetries(r.config.API.MaxRetries),
		analysis.WithLogger(r.logger),
	)
}

// loadWizard starts a wizard from an exported file, or empty when path is "".
func loadWizard(path string, l *zap.Logger) (*wizard.Wizard, error) {
	if path == "" {
		return wizard.New(l), nil
	}
	project, err := store.LoadProject(path)
	if err != nil {
		return nil, err
	}
	return wizard.NewFrom(project, l), nil
}
