// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/microsim-engine/internal/catalog"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the sim catalog (store, query, export)",
	Long: `Catalog maintains a local SQLite index of extracted specs and lifecycle
records with FTS5 full-text search over titles, summaries, and detail
text. Use subcommands to refresh the index, query it, or export it.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Refresh the catalog from chapter markdown",
	Long: `Store scans chapter documents into the catalog database. Chapters whose
index.md has not changed since the last run are skipped; lifecycle records
are always recomputed so quality-score changes are picked up.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	store, err := openCatalog(root, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	chaptersDir := filepath.Join(root, cfg.Scan.ChaptersDir)
	simsDir := filepath.Join(root, cfg.Scan.SimsDir)

	summary, err := store.Refresh(context.Background(), chaptersDir, simsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d chapter(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Query searches the catalog using FTS5 full-text search over titles,
summaries, and detail text, structured filters (chapter, library, status,
bloom), or a combination of both.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	store, err := openCatalog(root, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := catalogOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --chapter, --library, --status, or --bloom")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCatalogOutput(results, jsonOutput)
}

func formatCatalogOutput(results []catalog.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-30s  %-12s  %-12s  %s\n",
		"Sim", "Title", "Library", "Status", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for _, r := range results {
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		score := "-"
		if r.QualityScore != nil {
			score = fmt.Sprintf("%d", *r.QualityScore)
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-30s  %-12s  %-12s  %s\n",
			r.SimID, title, r.Library, r.Status, score)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) next to the
database as catalog-export.yaml or catalog-export.json. Supports the
same filter flags as query for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog(root, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := catalogOptsFromFlags(cmd, args)
	exportDir := filepath.Dir(filepath.Join(root, cfg.Catalog.DBPath))

	switch format {
	case "yaml", "":
		path := filepath.Join(exportDir, "catalog-export.yaml")
		if err := store.ExportYAML(context.Background(), opts, path); err != nil {
			return err
		}
		fmt.Println("Exported to", path)
	case "json":
		path := filepath.Join(exportDir, "catalog-export.json")
		if err := store.ExportJSON(context.Background(), opts, path); err != nil {
			return err
		}
		fmt.Println("Exported to", path)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func openCatalog(root string, cfg types.PipelineConfig) (*catalog.Store, error) {
	catalogCfg := cfg.Catalog
	catalogCfg.DBPath = filepath.Join(root, catalogCfg.DBPath)
	return catalog.NewStore(catalogCfg)
}

func catalogOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	chapter, _ := cmd.Flags().GetString("chapter")
	library, _ := cmd.Flags().GetString("library")
	status, _ := cmd.Flags().GetString("status")
	bloom, _ := cmd.Flags().GetString("bloom")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Chapter:    chapter,
		Library:    library,
		Status:     status,
		Taxonomy:   bloom,
		MaxResults: limit,
	}
}

func init() {
	// Query flags.
	catalogQueryCmd.Flags().String("query", "", "full-text search query")
	catalogQueryCmd.Flags().String("chapter", "", "filter by chapter directory name")
	catalogQueryCmd.Flags().String("library", "", "filter by rendering library")
	catalogQueryCmd.Flags().String("status", "", "filter by lifecycle status")
	catalogQueryCmd.Flags().String("bloom", "", "filter by cognitive-skill level")
	catalogQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("chapter", "", "filter by chapter for partial export")
	catalogExportCmd.Flags().String("library", "", "filter by library for partial export")
	catalogExportCmd.Flags().String("status", "", "filter by status for partial export")
	catalogExportCmd.Flags().String("bloom", "", "filter by cognitive-skill level for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
