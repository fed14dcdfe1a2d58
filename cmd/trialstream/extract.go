package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trialstream/internal/extract"
	"github.com/pdiddy/trialstream/internal/fieldmap"
	"github.com/pdiddy/trialstream/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract trial records from registry XML into NDJSON",
	Long: `Extract reads an index file of XML paths (one per line), parses each
ClinicalTrials.gov study document, and writes one JSON record per line to the
output file. Records appear in index order. Files that are missing or fail to
parse are skipped with a note on stdout; the run only aborts when the index
cannot be read, the output cannot be written, or the field map is invalid.

The set of extracted fields comes from the field map: the built-in map covers
the public registry schema, and --fieldmap (or extract.fieldmap in the config
file) substitutes a custom one.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	indexFile, _ := cmd.Flags().GetString("index-file")
	outputFile, _ := cmd.Flags().GetString("output")

	// Omitting --max-records means unbounded; an explicit value must be
	// zero or positive (zero emits nothing).
	maxRecords := -1
	if cmd.Flags().Changed("max-records") {
		n, _ := cmd.Flags().GetInt("max-records")
		if n < 0 {
			return fmt.Errorf("--max-records must be zero or positive, got %d", n)
		}
		maxRecords = n
	}

	fm, err := activeFieldmap(cmd)
	if err != nil {
		return err
	}

	cfg := types.ExtractConfig{
		IndexFile:  indexFile,
		OutputFile: outputFile,
		MaxRecords: maxRecords,
	}

	// Skipped files are reported in the summary, not the exit status.
	_, err = extract.Run(cfg, fm, os.Stdout)
	return err
}

// activeFieldmap resolves the field map for a command: the --fieldmap flag
// wins, then extract.fieldmap from the config file, then the built-in map.
func activeFieldmap(cmd *cobra.Command) (*fieldmap.Map, error) {
	path, _ := cmd.Flags().GetString("fieldmap")
	if path == "" {
		path = viper.GetString("extract.fieldmap")
	}
	if path == "" {
		return fieldmap.Default()
	}
	return fieldmap.Load(path)
}

func init() {
	extractCmd.Flags().String("index-file", "", "text file listing XML paths, one per line (required)")
	extractCmd.Flags().String("output", "", "NDJSON output file, replaced on each run (required)")
	extractCmd.Flags().Int("max-records", 0, "stop after emitting this many records (omit for all, 0 for none)")
	extractCmd.Flags().String("fieldmap", "", "YAML field map overriding the built-in registry schema")

	extractCmd.MarkFlagRequired("index-file")
	extractCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(extractCmd)
}
