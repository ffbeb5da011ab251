// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/microsim-engine/internal/lifecycle"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract sim specifications from chapter markdown",
	Long: `Extract scans every chapter's index.md for Diagram/Drawing headings and
their detail blocks, resolves each into a sim specification, reconciles the
specs with the sims directory, and reports lifecycle counts.

Use --output to export the raw specs as YAML and --status-file to write the
merged lifecycle records as JSON.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	chapterFilter, _ := cmd.Flags().GetString("chapter")
	output, _ := cmd.Flags().GetString("output")
	statusFile, _ := cmd.Flags().GetString("status-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	chaptersDir := filepath.Join(root, cfg.Scan.ChaptersDir)
	simsDir := filepath.Join(root, cfg.Scan.SimsDir)

	specs, summary, err := scan.Chapters(chaptersDir, chapterFilter, os.Stdout, verbose)
	if err != nil {
		return err
	}

	fmt.Printf("chapters: %d, specs: %d, malformed: %d\n",
		summary.Chapters, summary.Specs, summary.Malformed)

	if output != "" {
		data, err := yaml.Marshal(specs)
		if err != nil {
			return fmt.Errorf("marshaling specs: %w", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("wrote %d specs to %s\n", len(specs), output)
	}

	records := lifecycle.BuildRecords(specs, simsDir, os.Stderr)

	counts := lifecycle.CountByStatus(records)
	for _, status := range types.AllStatuses {
		if counts[status] > 0 {
			fmt.Printf("  %-12s %d\n", status, counts[status])
		}
	}

	if statusFile != "" {
		if err := lifecycle.WriteStatusFile(records, statusFile); err != nil {
			return fmt.Errorf("writing status file: %w", err)
		}
		fmt.Printf("wrote %d records to %s\n", len(records), statusFile)
	}

	return nil
}

func init() {
	extractCmd.Flags().String("chapter", "", "restrict to chapters matching a glob pattern")
	extractCmd.Flags().String("output", "", "write extracted specs as YAML to this file")
	extractCmd.Flags().String("status-file", "", "write lifecycle records as JSON to this file")

	rootCmd.AddCommand(extractCmd)
}
