// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ctgov-export CLI: fetch studies
// from the ClinicalTrials.gov registry and export them as a flat table.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/ctgov-export/internal/logging"
	"github.com/pdiddy/ctgov-export/internal/registry"
	"github.com/pdiddy/ctgov-export/internal/validation"
	"github.com/pdiddy/ctgov-export/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultTimeout = 60 * time.Second

// envKeyReplacer maps viper keys such as log.level to CTGOV_EXPORT_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

var (
	// logger is built in PersistentPreRunE from the log settings.
	logger      = logging.Discard()
	shutdownLog logging.ShutdownFunc
)

// rootCmd is the base command for the ctgov-export CLI.
var rootCmd = &cobra.Command{
	Use:   "ctgov-export",
	Short: "Export ClinicalTrials.gov studies to CSV, JSON, YAML, or SQLite",
	Long: `ctgov-export fetches studies from the ClinicalTrials.gov v2 API, follows
the registry's page tokens until every page has been read, flattens each
study into a fixed set of columns, and writes the rows to a file.

Use "study" to export a single trial by NCT ID and "search" to export every
trial matching a location, a sponsor, or both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := types.LogConfig{
			Level:      viper.GetString("log.level"),
			File:       viper.GetString("log.file"),
			MaxSizeMB:  viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
		}
		if err := validation.Struct(logCfg); err != nil {
			return err
		}
		l, shutdown, err := logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		logger, shutdownLog = l, shutdown
		slog.SetDefault(l)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ctgov-export.yaml or ~/.config/ctgov-export/ctgov-export.yaml)")
	pf.String("format", string(types.FormatCSV), "output format: csv, json, yaml, or sqlite")
	pf.Duration("timeout", defaultTimeout, "per-request HTTP timeout")
	pf.Int("retries", 0, "retries on HTTP 429 with exponential backoff (0 = none)")
	pf.String("base-url", registry.DefaultBaseURL, "registry studies endpoint")
	pf.String("user-agent", "ctgov-export/"+version, "User-Agent header for registry requests")
	pf.Bool("strict", false, "exit non-zero when pagination stops on a failed page")
	pf.Bool("preview", false, "print a table of the exported rows")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON logs to this rotating file")

	bindFlags(pf, map[string]string{
		"format":      "format",
		"timeout":     "timeout",
		"max_retries": "retries",
		"base_url":    "base-url",
		"user_agent":  "user-agent",
		"strict":      "strict",
		"preview":     "preview",
		"log.level":   "log-level",
		"log.file":    "log-file",
	})
}

// bindFlags binds viper keys to the named flags so config file and
// environment values apply when the flag is not given.
func bindFlags(fs *pflag.FlagSet, keyToFlag map[string]string) {
	for key, name := range keyToFlag {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ctgov-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ctgov-export"))
		}
	}

	viper.SetEnvPrefix("CTGOV_EXPORT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if shutdownLog != nil {
		shutdownLog()
	}
	if err != nil {
		os.Exit(1)
	}
}
