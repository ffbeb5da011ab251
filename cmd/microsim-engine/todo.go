// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/internal/todo"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Generate a TODO report for unimplemented sims",
	Long: `Todo cross-references extracted specs with the filesystem and writes a
self-contained markdown report of every sim still waiting on an
implementation, including its inlined specification text.`,
	RunE: runTodo,
}

func runTodo(cmd *cobra.Command, args []string) error {
	root, err := requireProject()
	if err != nil {
		return err
	}
	cfg := pipelineConfig()

	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if output == "" {
		output = filepath.Join(root, cfg.Scan.SimsDir, "TODO.md")
	}

	chaptersDir := filepath.Join(root, cfg.Scan.ChaptersDir)
	simsDir := filepath.Join(root, cfg.Scan.SimsDir)

	specs, _, err := scan.Chapters(chaptersDir, "", os.Stdout, verbose)
	if err != nil {
		return err
	}

	remaining, err := todo.Write(specs, simsDir, output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d TODO entries to %s\n", remaining, output)
	return nil
}

func init() {
	todoCmd.Flags().String("output", "", "output file (default: docs/sims/TODO.md)")

	rootCmd.AddCommand(todoCmd)
}
