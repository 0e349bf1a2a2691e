package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ctgov-export/internal/registry"
)

const defaultSearchOutput = "my_data.csv"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Export studies by location, sponsor, or both",
	Long: `Search queries the registry by location text (query.locn), sponsor text
(query.spons), or both combined, pages through every result, and writes
one row per study to a file.`,
	Example: `  ctgov-export search --sponsor "Johns Hopkins University" --location "United States" -o sample.csv`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		sponsor, _ := cmd.Flags().GetString("sponsor")
		q := registry.ByLocationOrSponsor(location, sponsor)
		if err := q.Validate(); err != nil {
			return err
		}
		return runExport(cmd, q, defaultSearchOutput)
	},
}

func init() {
	searchCmd.Flags().String("location", "", "location text, e.g. \"United States\"")
	searchCmd.Flags().String("sponsor", "", "sponsor text, e.g. \"Johns Hopkins University\"")
	searchCmd.Flags().StringP("output", "o", defaultSearchOutput, "output file (overwritten)")

	rootCmd.AddCommand(searchCmd)
}
