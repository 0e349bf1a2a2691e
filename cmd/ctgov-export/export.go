// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ctgov-export/internal/pipeline"
	"github.com/pdiddy/ctgov-export/internal/registry"
	"github.com/pdiddy/ctgov-export/internal/validation"
	"github.com/pdiddy/ctgov-export/pkg/types"
)

// exportConfig assembles the run configuration from flags, environment,
// and config file. The output flag falls back to the command's default
// file name.
func exportConfig(cmd *cobra.Command, defaultOutput string) (types.ExportConfig, error) {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultOutput
	}

	cfg := types.ExportConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("timeout"),
			UserAgent:  viper.GetString("user_agent"),
			MaxRetries: viper.GetInt("max_retries"),
		},
		BaseURL: viper.GetString("base_url"),
		Output:  output,
		Format:  types.OutputFormat(viper.GetString("format")),
		Strict:  viper.GetBool("strict"),
		Preview: viper.GetBool("preview"),
	}
	if err := validation.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runExport is shared by the study and search commands.
func runExport(cmd *cobra.Command, q *registry.Query, defaultOutput string) error {
	cfg, err := exportConfig(cmd, defaultOutput)
	if err != nil {
		return err
	}

	client := registry.NewClient(cfg.BaseURL, cfg.HTTPConfig, logger)
	sum, err := pipeline.Run(cmd.Context(), client, q, cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d studies from %d page(s) to %s\n", sum.Rows, sum.Pages, sum.Output)
	if sum.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the registry stopped answering before the last page; the export is incomplete")
	}
	return nil
}
