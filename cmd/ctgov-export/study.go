package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ctgov-export/internal/registry"
)

const defaultStudyOutput = "clinical_trials_specific_case.csv"

var studyCmd = &cobra.Command{
	Use:   "study <nct-id>",
	Short: "Export the study matching an NCT identifier",
	Long: `Study queries the registry by trial identifier (query.id) and writes the
matching studies to a file. The registry matches identifiers loosely, so
more than one row can be written.`,
	Example: `  ctgov-export study NCT01068860
  ctgov-export study NCT01068860 --output trial.json --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, registry.ByID(args[0]), defaultStudyOutput)
	},
}

func init() {
	studyCmd.Flags().StringP("output", "o", defaultStudyOutput, "output file (overwritten)")

	rootCmd.AddCommand(studyCmd)
}
