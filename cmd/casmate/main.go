// Package main is the casmate operator CLI: ask one question, chat in a
// terminal, check the catalog and export it to SQLite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyellow/casmate/internal/buildinfo"
	"github.com/garyellow/casmate/internal/config"
	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/logger"
)

var (
	dataDir     string
	aliasesPath string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "casmate",
	Short:         "CASmate course FAQ assistant: ask questions and check the catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "catalog data directory (overrides "+config.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&aliasesPath, "aliases", "", "alias YAML file (overrides "+config.EnvAliasesPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(askCmd, chatCmd, verifyCmd, exportCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadForMode(config.CLIMode)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
		cfg.CatalogSource = config.SourceFiles
	}
	if aliasesPath != "" {
		cfg.AliasesPath = aliasesPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// loadEngine builds an engine from the configured source.
func loadEngine(ctx context.Context) (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, config.CatalogLoad)
	defer cancel()

	e, err := engine.Load(ctx, cfg.Source(), cfg.EngineOptions())
	if err != nil {
		return nil, cfg, err
	}
	return e, cfg, nil
}

// newLogger writes to stderr so command output stays clean.
func newLogger(cfg *config.Config) *logger.Logger {
	level := cfg.LogLevel
	if logLevel == "" {
		level = "warn"
	}
	return logger.NewWithWriter(level, os.Stderr)
}
