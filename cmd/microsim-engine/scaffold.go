// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/microsim-engine/internal/scaffold"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate sim directories from extracted specifications",
	Long: `Scaffold creates a directory under docs/sims/ for each extracted spec,
with a renderer-hosting main.html, an entry index.md, and a metadata.json
descriptor. Existing files are skipped individually; use --force to
overwrite them.

Specs come from scanning the chapters directly, or from a YAML file
produced by extract --output when --spec-file is given.`,
	RunE: runScaffold,
}

func runScaffold(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	specFile, _ := cmd.Flags().GetString("spec-file")
	simFilter, _ := cmd.Flags().GetString("sim")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var specs []types.SimSpec
	if specFile != "" {
		data, err := os.ReadFile(specFile)
		if err != nil {
			return fmt.Errorf("reading spec file %s: %w", specFile, err)
		}
		if err := yaml.Unmarshal(data, &specs); err != nil {
			return fmt.Errorf("parsing spec file %s: %w", specFile, err)
		}
	} else {
		chaptersDir := filepath.Join(root, cfg.Scan.ChaptersDir)
		specs, _, err = scan.Chapters(chaptersDir, "", os.Stdout, verbose)
		if err != nil {
			return err
		}
	}

	if simFilter != "" {
		filtered := specs[:0]
		for _, s := range specs {
			if scan.MatchTarget(simFilter, s.SimID) {
				filtered = append(filtered, s)
			}
		}
		specs = filtered
	}

	if len(specs) == 0 {
		fmt.Println("no specs to scaffold")
		return nil
	}

	simsDir := filepath.Join(root, cfg.Scaffold.SimsDir)
	opts := scaffold.Options{DryRun: dryRun, Force: force}

	summary := scaffold.EmitAll(specs, simsDir, cfg.Scaffold, opts, os.Stdout)
	fmt.Printf("\nscaffolded: %d, skipped: %d (of %d)\n",
		summary.Scaffolded, summary.Skipped, summary.Total())

	return nil
}

func init() {
	scaffoldCmd.Flags().String("spec-file", "", "read specs from a YAML file instead of scanning chapters")
	scaffoldCmd.Flags().String("sim", "", "restrict to sims matching a glob pattern")
	scaffoldCmd.Flags().Bool("dry-run", false, "show what would be created without writing")
	scaffoldCmd.Flags().Bool("force", false, "overwrite existing scaffold files")

	rootCmd.AddCommand(scaffoldCmd)
}
