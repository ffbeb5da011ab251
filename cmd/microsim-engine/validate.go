// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/microsim-engine/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score sims against the 100-point quality rubric",
	Long: `Validate scores every sim directory against the quality rubric: required
files, schema meta tag, frontmatter fields, entry document structure, and
p5.js conventions. Output is a graded table or JSON.

Use --update-scores to persist each score into the sim's index.md
frontmatter as quality_score, which the lifecycle classifier reads.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	simFilter, _ := cmd.Flags().GetString("sim")
	minScore, _ := cmd.Flags().GetInt("min-score")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	updateScores, _ := cmd.Flags().GetBool("update-scores")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if minScore == 0 {
		minScore = cfg.Validate.MinScore
	}

	simsDir := filepath.Join(root, cfg.Validate.SimsDir)
	opts := validate.Options{
		SimFilter:    simFilter,
		MinScore:     minScore,
		UpdateScores: updateScores,
		Verbose:      verbose,
	}

	reports, err := validate.Run(simsDir, opts, os.Stderr)
	if err != nil {
		return err
	}

	if output != "" {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling reports: %w", err)
		}
		if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("wrote %d results to %s\n", len(reports), output)
		return nil
	}

	switch format {
	case "table", "":
		validate.WriteTable(reports, verbose, os.Stdout)
	case "json":
		if err := validate.WriteJSON(reports, os.Stdout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use table or json", format)
	}

	return nil
}

func init() {
	validateCmd.Flags().String("sim", "", "restrict to sims matching a glob pattern")
	validateCmd.Flags().Int("min-score", 0, "only show sims scoring at least N")
	validateCmd.Flags().String("output", "", "write results as JSON to this file")
	validateCmd.Flags().String("format", "table", "output format: table or json")
	validateCmd.Flags().Bool("update-scores", false, "persist scores into each sim's index.md frontmatter")

	rootCmd.AddCommand(validateCmd)
}
