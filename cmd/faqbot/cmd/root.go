package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/infrastructure/config"
	"github.com/0xcro3dile/faqbot-go/internal/infrastructure/logger"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

var rootCmd = &cobra.Command{
	Use:          "faqbot",
	Short:        "faqbot answers questions from a Q/A dataset",
	Long:         "Fuzzy-matches questions against a Q/A dataset and falls back to greeting, technical or default replies.",
	SilenceUsage: true,
}

var logLevel string

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration and builds the logger every command shares.
// quietLevel applies when neither the flag nor LOG_LEVEL sets a level.
func setup(quietLevel string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	envSet := os.Getenv("LOG_LEVEL") != ""
	level := effectiveLevel(logLevel, envSet, cfg.Log.Level, quietLevel)
	cfg.Log.Level = level

	log, err := logger.New(logger.Options{
		Level:    level,
		FilePath: cfg.Log.FilePath,
		IsProd:   cfg.IsProd(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// effectiveLevel picks the --log-level flag, then an explicit LOG_LEVEL,
// then the command's quiet level, then the configured default.
func effectiveLevel(flag string, envSet bool, configured, quiet string) string {
	switch {
	case flag != "":
		return flag
	case envSet:
		return configured
	case quiet != "":
		return quiet
	}
	return configured
}
