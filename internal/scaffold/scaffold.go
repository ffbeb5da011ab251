// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scaffold generates the minimal file set that brings a specified
// sim to the scaffolded lifecycle state: an entry document, a
// renderer-hosting document, and a metadata descriptor.
package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

// now is swapped out by tests that need a fixed scaffold date.
var now = time.Now

var titleCaser = cases.Title(language.English)

// Options controls scaffold emission.
type Options struct {
	// DryRun reports what would be created without writing anything.
	DryRun bool

	// Force overwrites files that already exist.
	Force bool
}

// Result lists the per-file outcome of scaffolding one sim.
type Result struct {
	Created []string
	Skipped []string
}

// Summary holds counts from a batch scaffold run.
type Summary struct {
	Scaffolded int
	Skipped    int
}

// Total returns the number of specs processed.
func (s Summary) Total() int { return s.Scaffolded + s.Skipped }

// Files renders the three scaffold documents for a spec. No filesystem
// access: all computation happens before any write.
func Files(spec types.SimSpec, cfg types.ScaffoldConfig) (map[string]string, error) {
	library := spec.Library
	if library == "" || library == "unknown" {
		library = cfg.DefaultLibrary
	}
	cdn, ok := LibraryCDNs[library]
	if !ok {
		cdn = LibraryCDNs[cfg.DefaultLibrary]
	}

	title := displayTitle(spec)

	var html bytes.Buffer
	err := htmlTmpl.Execute(&html, htmlData{
		SimID:   spec.SimID,
		Title:   title,
		Library: library,
		CDN:     cdn,
		CSS:     LibraryCSS[library],
	})
	if err != nil {
		return nil, fmt.Errorf("rendering main.html for %s: %w", spec.SimID, err)
	}

	var index bytes.Buffer
	err = indexTmpl.Execute(&index, indexData{
		SimID:      spec.SimID,
		Title:      title,
		TitleLower: strings.ToLower(title),
		Library:    library,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering index.md for %s: %w", spec.SimID, err)
	}

	meta, err := metadataJSON(spec, title, library, cfg)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"main.html":     html.String(),
		"index.md":      index.String(),
		"metadata.json": meta,
	}, nil
}

// displayTitle falls back to a title-cased, spaced form of the sim_id when
// the title is just the identifier itself.
func displayTitle(spec types.SimSpec) string {
	if spec.Title == "" || spec.Title == spec.SimID {
		return titleCaser.String(strings.ReplaceAll(spec.SimID, "-", " "))
	}
	return spec.Title
}

// metadataJSON builds the metadata.json descriptor with placeholder values
// the author fills in later.
func metadataJSON(spec types.SimSpec, title, library string, cfg types.ScaffoldConfig) (string, error) {
	taxonomy := spec.TaxonomyLevel
	if taxonomy == "" {
		taxonomy = "Understand"
	}

	meta := types.SimMetadata{
		Title:       title,
		Creator:     cfg.Creator,
		Subject:     cfg.Subject,
		Description: fmt.Sprintf("Interactive MicroSim for %s", strings.ToLower(title)),
		Date:        now().Format("2006-01-02"),
		Educational: types.EducationalMetadata{
			GradeLevel:         []string{},
			SubjectArea:        cfg.Subject,
			Topic:              title,
			LearningObjectives: []string{"TODO: Add learning objectives"},
			BloomsTaxonomy:     taxonomy,
			Duration:           "10-15 minutes",
			Prerequisites:      []string{},
			Standards:          []string{},
		},
		Technical: types.TechnicalMetadata{
			Framework:    library,
			Version:      "1.0",
			CanvasDimensions: types.CanvasDimensions{
				Width:  "responsive",
				Height: 450,
			},
			Responsive:   true,
			Dependencies: []string{},
		},
		Pedagogical: types.PedagogicalMetadata{
			TeachingStrategy:        "Interactive exploration",
			KeyQuestions:            []string{},
			CommonMisconceptions:    []string{},
			AssessmentOpportunities: []string{},
		},
		Chapter: spec.Chapter,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling metadata for %s: %w", spec.SimID, err)
	}
	return string(data) + "\n", nil
}

// Emit writes the scaffold files for one spec into simsDir/<sim_id>/.
// Existing files are skipped individually unless Force is set; a skip is
// reported in the result, never an error. The directory is created when
// absent.
func Emit(spec types.SimSpec, simsDir string, cfg types.ScaffoldConfig, opts Options, w io.Writer) (Result, error) {
	files, err := Files(spec, cfg)
	if err != nil {
		return Result{}, err
	}

	simDir := filepath.Join(simsDir, spec.SimID)

	// Stable emission order regardless of map iteration.
	names := []string{"main.html", "index.md", "metadata.json"}

	if opts.DryRun {
		var res Result
		for _, name := range names {
			path := filepath.Join(simDir, name)
			if _, err := os.Stat(path); err == nil && !opts.Force {
				fmt.Fprintf(w, "  [dry-run] would skip %s (exists)\n", path)
				res.Skipped = append(res.Skipped, name)
				continue
			}
			fmt.Fprintf(w, "  [dry-run] would create %s\n", path)
			res.Created = append(res.Created, name)
		}
		return res, nil
	}

	if err := os.MkdirAll(simDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating %s: %w", simDir, err)
	}

	var res Result
	for _, name := range names {
		path := filepath.Join(simDir, name)
		if _, err := os.Stat(path); err == nil && !opts.Force {
			fmt.Fprintf(w, "  skipped %s (exists, use --force to overwrite)\n", name)
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(w, "  created %s\n", name)
		res.Created = append(res.Created, name)
	}

	return res, nil
}

// EmitAll scaffolds every spec, skipping nothing on per-file conflicts and
// continuing past per-sim errors. A sim counts as scaffolded when at least
// one file was created.
func EmitAll(specs []types.SimSpec, simsDir string, cfg types.ScaffoldConfig, opts Options, w io.Writer) Summary {
	var summary Summary
	for _, spec := range specs {
		fmt.Fprintf(w, "%s\n", spec.SimID)
		res, err := Emit(spec, simsDir, cfg, opts, w)
		if err != nil {
			fmt.Fprintf(w, "  failed: %v\n", err)
			summary.Skipped++
			continue
		}
		if len(res.Created) > 0 {
			summary.Scaffolded++
		} else {
			summary.Skipped++
		}
	}
	return summary
}
