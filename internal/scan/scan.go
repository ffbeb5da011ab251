// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

// ChapterEntryFile is the document scanned inside each chapter directory.
const ChapterEntryFile = "index.md"

// Summary holds counts from a corpus scan.
type Summary struct {
	Chapters  int
	Specs     int
	Malformed int
}

// ScanChapter extracts all sim specifications from one chapter document.
// Extraction never fails: malformed input produces specs with diagnostics
// and empty fields rather than errors.
func ScanChapter(content, chapterName string) []types.SimSpec {
	blocks := ParseBlocks(content)
	var specs []types.SimSpec
	seen := map[string]bool{}

	for i, b := range blocks {
		if b.Kind != BlockHeading || b.SimKind == "" {
			continue
		}

		window := windowAfter(blocks, i)
		spec := buildSpec(b, window, chapterName)

		if seen[spec.SimID] {
			spec.Diagnostics = append(spec.Diagnostics,
				fmt.Sprintf("duplicate sim_id %q within chapter %s", spec.SimID, chapterName))
		}
		seen[spec.SimID] = true

		specs = append(specs, spec)
	}

	return specs
}

// windowAfter returns the blocks following index i up to the next heading
// of the same or higher level.
func windowAfter(blocks []Block, i int) []Block {
	level := blocks[i].Level
	for j := i + 1; j < len(blocks); j++ {
		if blocks[j].Kind == BlockHeading && blocks[j].Level <= level {
			return blocks[i+1 : j]
		}
	}
	return blocks[i+1:]
}

// buildSpec resolves one sim heading and its window into a SimSpec.
func buildSpec(heading Block, window []Block, chapterName string) types.SimSpec {
	spec := types.SimSpec{
		Title:       heading.Title,
		HeadingKind: heading.SimKind,
		Chapter:     chapterName,
	}

	// At most one details block and one embed per window. An embed inside
	// the details block still counts.
	var embedID string
	for _, b := range window {
		switch b.Kind {
		case BlockDetails:
			if spec.RawDetail == "" {
				spec.RawDetail = b.Text
				spec.Summary = b.Summary
				if !b.Terminated {
					spec.Diagnostics = append(spec.Diagnostics,
						"unterminated details block")
				}
			}
		case BlockIframe:
			if spec.EmbedSrc == "" {
				spec.EmbedSrc = b.Src
				spec.EmbedHeight = b.Height
				embedID = b.SimID
			}
		}
	}
	if spec.EmbedSrc == "" && spec.RawDetail != "" {
		if src, id, height, ok := ParseIframe(spec.RawDetail); ok {
			spec.EmbedSrc = src
			spec.EmbedHeight = height
			embedID = id
		}
	}

	spec.SimID = InferSimID(spec.Title, spec.RawDetail, embedID)
	spec.Library = InferLibrary(spec.RawDetail)
	spec.TaxonomyLevel = InferTaxonomy(spec.RawDetail)
	spec.ElementType = fieldValue(fieldTypeRe, spec.RawDetail)
	spec.DeclaredStatus = fieldValue(fieldStatusRe, spec.RawDetail)

	return spec
}

// Chapters scans every chapter directory under chaptersDir (sorted order)
// and returns the extracted specs. The filter, when non-empty, is a glob
// pattern matched against chapter directory names; a literal name matches
// exactly. Chapters without an entry file are skipped. Per-chapter progress
// goes to w when verbose.
func Chapters(chaptersDir, filter string, w io.Writer, verbose bool) ([]types.SimSpec, Summary, error) {
	entries, err := os.ReadDir(chaptersDir)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("reading chapters directory %s: %w", chaptersDir, err)
	}

	var (
		all     []types.SimSpec
		summary Summary
	)
	seen := map[string]string{} // sim_id -> chapter that first declared it

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !MatchTarget(filter, name) {
			continue
		}

		indexPath := filepath.Join(chaptersDir, name, ChapterEntryFile)
		data, err := os.ReadFile(indexPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			fmt.Fprintf(w, "skipped %s: %v\n", name, err)
			continue
		}

		specs := ScanChapter(string(data), name)
		summary.Chapters++
		summary.Specs += len(specs)

		for i := range specs {
			s := &specs[i]
			if prev, ok := seen[s.SimID]; ok && prev != name {
				s.Diagnostics = append(s.Diagnostics,
					fmt.Sprintf("duplicate sim_id %q also declared in chapter %s", s.SimID, prev))
			} else if !ok {
				seen[s.SimID] = name
			}
			if len(s.Diagnostics) > 0 {
				summary.Malformed++
			}
			if verbose {
				flag := "✔"
				if !s.HasEmbed() {
					flag = "⚠"
				}
				fmt.Fprintf(w, "  %s %s  (%s: %s)\n", flag, s.SimID, s.HeadingKind, s.Title)
				for _, d := range s.Diagnostics {
					fmt.Fprintf(w, "    ! %s\n", d)
				}
			}
		}

		all = append(all, specs...)
	}

	return all, summary, nil
}

// MatchTarget reports whether name matches the filter pattern. An empty
// filter matches everything; patterns use doublestar glob syntax, so a
// literal name behaves as an exact match.
func MatchTarget(filter, name string) bool {
	if filter == "" {
		return true
	}
	ok, err := doublestar.Match(filter, name)
	if err != nil {
		return filter == name
	}
	return ok
}
