// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trialstream/internal/catalog"
	"github.com/pdiddy/trialstream/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the trial catalog (load, query, export)",
	Long: `Catalog manages a local SQLite catalog built from extracted trial records.
Use subcommands to load an NDJSON extract, query it, or export.`,
}

// --- load subcommand ---

var catalogLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load extracted NDJSON records into the catalog",
	Long: `Load replaces the catalog contents with the records from an NDJSON file
produced by extract. Every run is a full reload: duplicate trial IDs in the
input produce duplicate rows. Lines that fail to decode are reported and
skipped; the load continues.`,
	RunE: runCatalogLoad,
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("input")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Load(context.Background(), inputFile, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d line(s) failed to load", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Query searches the catalog using FTS5 full-text search over titles,
eligibility criteria, conditions, and keywords, structured filters
(phase, status, sponsor, condition), or a combination of both.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --phase, --status, --sponsor, or --condition")
	}

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []catalog.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-10s  %-20s  %s\n",
		"Rank", "NCT ID", "Phase", "Status", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		title := r.BriefTitle
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		status := r.OverallStatus
		if len(status) > 20 {
			status = status[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-10s  %-20s  %s\n",
			i+1, r.NCTID, r.Phase, status, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to
<catalog-dir>/export.yaml or export.json. Supports the same filter
flags as query for partial exports. Exported entries are the complete
extracted records, not just the indexed columns.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	dir := catalogDir(cmd)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", dir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func catalogDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("catalog-dir")
	if dir == "" {
		dir = viper.GetString("catalog.dir")
	}
	return dir
}

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CatalogConfig{
		CatalogDir: catalogDir(cmd),
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	phase, _ := cmd.Flags().GetString("phase")
	status, _ := cmd.Flags().GetString("status")
	sponsor, _ := cmd.Flags().GetString("sponsor")
	condition, _ := cmd.Flags().GetString("condition")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Phase:      phase,
		Status:     status,
		Sponsor:    sponsor,
		Condition:  condition,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "", "catalog directory (default: catalog.dir config key, data/catalog)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Load flags.
	catalogLoadCmd.Flags().String("input", "", "NDJSON file produced by extract (required)")
	catalogLoadCmd.MarkFlagRequired("input")

	// Query flags.
	catalogQueryCmd.Flags().String("query", "", "full-text search query")
	catalogQueryCmd.Flags().String("phase", "", "filter by exact phase, e.g. 'Phase 2'")
	catalogQueryCmd.Flags().String("status", "", "filter by exact overall status, e.g. 'Recruiting'")
	catalogQueryCmd.Flags().String("sponsor", "", "filter by lead sponsor substring")
	catalogQueryCmd.Flags().String("condition", "", "filter by exact condition name")
	catalogQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("phase", "", "filter by exact phase for partial export")
	catalogExportCmd.Flags().String("status", "", "filter by exact status for partial export")
	catalogExportCmd.Flags().String("sponsor", "", "filter by sponsor substring for partial export")
	catalogExportCmd.Flags().String("condition", "", "filter by exact condition for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
