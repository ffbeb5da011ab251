// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package todo writes the remaining-work report: every sim that is still
// specified or scaffolded, with enough of its specification inlined that
// an implementer needs no other document.
package todo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/microsim-engine/internal/lifecycle"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

// now is swapped out by tests that pin the report date.
var now = time.Now

var (
	detailsOpenRe  = regexp.MustCompile(`(?i)<details\s+markdown=["']1["']\s*>\s*\n?`)
	summaryPairRe  = regexp.MustCompile(`(?is)<summary>.*?</summary>\s*\n?`)
	detailsCloseRe = regexp.MustCompile(`(?i)\s*</details>\s*$`)
	statusLineRe   = regexp.MustCompile(`\*\*Status:\*\*\s*\S+.*\n?`)
)

// StripDetailWrapper removes the collapsible HTML wrapper and declared
// status lines from a detail block, leaving the specification prose.
// Status lines are dropped because everything in the report is
// unimplemented by construction.
func StripDetailWrapper(text string) string {
	if text == "" {
		return ""
	}
	out := detailsOpenRe.ReplaceAllStringFunc(text, replaceOnce())
	out = summaryPairRe.ReplaceAllStringFunc(out, replaceOnce())
	out = detailsCloseRe.ReplaceAllString(out, "")
	out = statusLineRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// replaceOnce builds a replacer that blanks only its first match and
// returns later matches unchanged.
func replaceOnce() func(string) string {
	done := false
	return func(m string) string {
		if done {
			return m
		}
		done = true
		return ""
	}
}

// entry pairs a spec with its filesystem-derived status.
type entry struct {
	spec   types.SimSpec
	status types.LifecycleStatus
}

// Generate builds the report content from specs and filesystem state.
// Returns the markdown and the number of remaining sims.
func Generate(specs []types.SimSpec, simsDir string) (string, int) {
	type chapterCount struct{ total, done, remaining int }
	chapterCounts := map[string]*chapterCount{}

	var todo []entry
	for _, spec := range specs {
		obs, err := lifecycle.Observe(filepath.Join(simsDir, spec.SimID))
		status := types.StatusSpecified
		if err == nil {
			status = lifecycle.Derive(obs, spec.HasEmbed())
		}

		cc := chapterCounts[spec.Chapter]
		if cc == nil {
			cc = &chapterCount{}
			chapterCounts[spec.Chapter] = cc
		}
		cc.total++

		if status == types.StatusSpecified || status == types.StatusScaffolded {
			cc.remaining++
			todo = append(todo, entry{spec: spec, status: status})
		} else {
			cc.done++
		}
	}

	sort.SliceStable(todo, func(i, j int) bool {
		return todo[i].spec.Chapter < todo[j].spec.Chapter
	})

	libCounts := map[string]int{}
	for _, e := range todo {
		lib := e.spec.Library
		if lib == "" {
			lib = "Unknown"
		}
		libCounts[lib]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# MicroSim TODO — Remaining Implementations\n\n")
	fmt.Fprintf(&b, "**Generated:** %s | **Remaining:** %d of %d\n\n",
		now().Format("2006-01-02"), len(todo), len(specs))

	b.WriteString("## Summary by Chapter\n\n")
	b.WriteString("| Chapter | Total | Done | Remaining |\n")
	b.WriteString("|---------|-------|------|-----------|\n")
	chapters := make([]string, 0, len(chapterCounts))
	for ch := range chapterCounts {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)
	for _, ch := range chapters {
		cc := chapterCounts[ch]
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", ch, cc.total, cc.done, cc.remaining)
	}
	b.WriteString("\n")

	b.WriteString("## Summary by Library\n\n")
	b.WriteString("| Library | Count |\n")
	b.WriteString("|---------|-------|\n")
	libs := make([]string, 0, len(libCounts))
	for lib := range libCounts {
		libs = append(libs, lib)
	}
	sort.Slice(libs, func(i, j int) bool {
		if libCounts[libs[i]] != libCounts[libs[j]] {
			return libCounts[libs[i]] > libCounts[libs[j]]
		}
		return libs[i] < libs[j]
	})
	for _, lib := range libs {
		fmt.Fprintf(&b, "| %s | %d |\n", lib, libCounts[lib])
	}
	b.WriteString("\n---\n\n")

	for _, e := range todo {
		sid := e.spec.SimID
		fmt.Fprintf(&b, "## %s\n\n", sid)
		fmt.Fprintf(&b, "- **Title:** %s\n", e.spec.Title)
		fmt.Fprintf(&b, "- **Chapter:** %s\n", e.spec.Chapter)
		if e.spec.Library != "" {
			fmt.Fprintf(&b, "- **Library:** %s\n", e.spec.Library)
		}
		if bloom := scan.TaxonomyShort(e.spec.TaxonomyLevel); bloom != "" {
			fmt.Fprintf(&b, "- **Bloom:** %s\n", bloom)
		}
		fmt.Fprintf(&b, "- **Status:** %s\n", e.status)
		fmt.Fprintf(&b, "- **Target:** `docs/sims/%s/%s.js`\n\n", sid, sid)

		if inner := StripDetailWrapper(e.spec.RawDetail); inner != "" {
			b.WriteString("### Specification\n\n")
			b.WriteString(inner)
			b.WriteString("\n\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String(), len(todo)
}

// Write generates the report and writes it to outputPath, creating parent
// directories as needed.
func Write(specs []types.SimSpec, simsDir, outputPath string) (int, error) {
	content, remaining := Generate(specs, simsDir)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Dir(outputPath), err)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return remaining, nil
}
