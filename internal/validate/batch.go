// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/microsim-engine/internal/frontmatter"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

// Options controls a batch validation run.
type Options struct {
	// SimFilter restricts validation to sims whose directory name matches
	// the glob pattern. Empty means all sims.
	SimFilter string

	// MinScore drops reports scoring below the threshold.
	MinScore int

	// UpdateScores persists each score into the sim's index.md frontmatter
	// as quality_score.
	UpdateScores bool

	Verbose bool
}

// Run scores every sim directory under simsDir (sorted, dot-directories
// excluded) and returns the surviving reports. Persisting a score that
// fails to write is reported to w and does not abort the run.
func Run(simsDir string, opts Options, w io.Writer) ([]types.QualityReport, error) {
	entries, err := os.ReadDir(simsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sims directory %s: %w", simsDir, err)
	}

	var reports []types.QualityReport
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !scan.MatchTarget(opts.SimFilter, name) {
			continue
		}

		report := Score(filepath.Join(simsDir, name), name)

		if opts.UpdateScores {
			if err := PersistScore(filepath.Join(simsDir, name), report.Score); err != nil {
				fmt.Fprintf(w, "could not persist score for %s: %v\n", name, err)
			}
		}

		if report.Score < opts.MinScore {
			continue
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].SimID < reports[j].SimID })
	return reports, nil
}

// PersistScore writes score into the sim's index.md frontmatter as
// quality_score, preserving the rest of the document byte-for-byte.
func PersistScore(simDir string, score int) error {
	path := filepath.Join(simDir, "index.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated, err := frontmatter.SetField(data, "quality_score", fmt.Sprintf("%d", score))
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}
	return os.WriteFile(path, updated, 0o644)
}

// WriteTable renders reports as an aligned text table with letter grades,
// followed by an aggregate summary.
func WriteTable(reports []types.QualityReport, verbose bool, w io.Writer) {
	header := fmt.Sprintf("%-40s %5s %6s", "MicroSim", "Score", "Grade")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range reports {
		fmt.Fprintf(w, "%-40s %5d %6s\n", r.SimID, r.Score, r.Grade())
		if verbose {
			for _, issue := range r.Issues {
				fmt.Fprintf(w, "      %s\n", issue)
			}
		}
	}

	if len(reports) == 0 {
		return
	}

	var total int
	grades := map[string]int{}
	for _, r := range reports {
		total += r.Score
		grades[r.Grade()]++
	}
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Validated: %d  Avg: %.1f\n", len(reports), float64(total)/float64(len(reports)))
	fmt.Fprintf(w, "  A (85+): %d  B (70-84): %d  C (50-69): %d  D (<50): %d\n",
		grades["A"], grades["B"], grades["C"], grades["D"])
}

// WriteJSON renders reports as an indented JSON array.
func WriteJSON(reports []types.QualityReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
