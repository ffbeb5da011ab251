// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/microsim-engine/internal/nav"
	"github.com/pdiddy/microsim-engine/internal/project"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Regenerate the MicroSims section of the mkdocs nav",
	Long: `Nav scans docs/sims/ for sim directories with an index.md, extracts each
display title, and replaces the MicroSims block in mkdocs.yml with an
alphabetically sorted list. The rest of the file is left untouched, so
the rewrite is safe to repeat.`,
	RunE: runNav,
}

func runNav(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	simsDir := filepath.Join(root, cfg.Nav.SimsDir)
	entries, err := nav.CollectEntries(simsDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no sims with an index.md found; nav left unchanged")
		return nil
	}
	if verbose {
		fmt.Printf("found %d sims with index.md\n", len(entries))
	}

	mkdocsPath := filepath.Join(root, project.MarkerFile)
	return nav.Rewrite(mkdocsPath, cfg.Nav.SectionName, entries, dryRun, os.Stdout)
}

func init() {
	navCmd.Flags().Bool("dry-run", false, "show what would change without writing")

	rootCmd.AddCommand(navCmd)
}
