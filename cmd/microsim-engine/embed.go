// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/microsim-engine/internal/embed"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Insert and repair sim iframes in chapter markdown",
	Long: `Embed finds Diagram/Drawing headings whose detail block has no iframe and
inserts one pointing at the sim's main.html. With --fix-heights it also
aligns iframe heights with each sim's canvas height and corrects the
"NNNxp" typo; with --fix-paths it rewrites absolute /sims/ paths to the
relative form chapter pages need.`,
	RunE: runEmbed,
}

func runEmbed(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	chapter, _ := cmd.Flags().GetString("chapter")
	all, _ := cmd.Flags().GetBool("all")
	fixHeights, _ := cmd.Flags().GetBool("fix-heights")
	fixPaths, _ := cmd.Flags().GetBool("fix-paths")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if chapter == "" && !all {
		return fmt.Errorf("specify --chapter NAME or --all")
	}

	chaptersDir := filepath.Join(root, cfg.Scan.ChaptersDir)
	simsDir := filepath.Join(root, cfg.Scan.SimsDir)

	opts := embed.Options{
		FixHeights: fixHeights,
		FixPaths:   fixPaths,
		DryRun:     dryRun,
		Verbose:    verbose,
	}

	total, err := embed.Run(chaptersDir, simsDir, chapter, opts, os.Stdout)
	if err != nil {
		return err
	}

	mode := ""
	if dryRun {
		mode = "[dry-run] "
	}
	fmt.Printf("%stotal changes: %d\n", mode, total)
	return nil
}

func init() {
	embedCmd.Flags().String("chapter", "", "single chapter directory to process (glob patterns allowed)")
	embedCmd.Flags().Bool("all", false, "process all chapters")
	embedCmd.Flags().Bool("fix-heights", false, "align iframe heights with each sim's canvas height")
	embedCmd.Flags().Bool("fix-paths", false, "rewrite absolute /sims/ paths to relative form")
	embedCmd.Flags().Bool("dry-run", false, "show changes without writing")

	rootCmd.AddCommand(embedCmd)
}
