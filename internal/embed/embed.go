// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed maintains sim iframes inside chapter documents: inserting
// missing embeds before detail blocks and normalizing heights and paths
// of existing ones.
package embed

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/microsim-engine/internal/scan"
)

// Options controls a chapter maintenance pass.
type Options struct {
	// FixHeights corrects the NNNxp typo and aligns iframe heights with the
	// sim's canvas height plus a 2px border allowance.
	FixHeights bool

	// FixPaths rewrites absolute /sims/ embed paths to the relative form a
	// chapter page needs.
	FixPaths bool

	DryRun  bool
	Verbose bool
}

// DefaultHeight is used for inserted embeds when no canvas height is known.
const DefaultHeight = "450px"

var (
	heightTypoRe   = regexp.MustCompile(`(?i)height=["'](\d+)xp["']`)
	absPathRe      = regexp.MustCompile(`(?i)src=["']/sims/([^/"']+)/main\.html["']`)
	heightAttrRe   = regexp.MustCompile(`(?i)height=["'][^"']*["']`)
	createCanvasRe = regexp.MustCompile(`createCanvas\(\s*\w+\s*,\s*(\d+)\s*\)`)
	canvasHeightRe = regexp.MustCompile(`(?:canvasHeight|height)\s*=\s*(\d+)`)
)

// CanvasHeight reads the sim's script files and extracts the canvas height
// from a createCanvas call or a height assignment. Returns false when no
// script declares one.
func CanvasHeight(simDir string) (int, bool) {
	entries, err := os.ReadDir(simDir)
	if err != nil {
		return 0, false
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".js") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(simDir, e.Name()))
		if err != nil {
			continue
		}
		content := string(data)
		if m := createCanvasRe.FindStringSubmatch(content); m != nil {
			h, _ := strconv.Atoi(m[1])
			return h, true
		}
		if m := canvasHeightRe.FindStringSubmatch(content); m != nil {
			h, _ := strconv.Atoi(m[1])
			return h, true
		}
	}
	return 0, false
}

// ProcessChapter applies the maintenance passes to one chapter document and
// returns the updated content plus a description of every change. Content
// is returned unchanged when no pass fires.
func ProcessChapter(content, simsDir string, opts Options) (string, []string) {
	lines := strings.Split(content, "\n")
	var changes []string

	if opts.FixHeights || opts.FixPaths {
		for i, line := range lines {
			fixed := line
			if opts.FixHeights {
				fixed = heightTypoRe.ReplaceAllString(fixed, `height="${1}px"`)
			}
			if opts.FixPaths {
				fixed = absPathRe.ReplaceAllString(fixed, `src="../../sims/${1}/main.html"`)
			}
			if fixed != line {
				lines[i] = fixed
				changes = append(changes, fmt.Sprintf("fixed line %d: typo/path correction", i+1))
			}
		}
	}

	blocks := scan.ParseBlocks(strings.Join(lines, "\n"))

	type insertion struct {
		line  int // 1-based, insert before this line
		added []string
	}
	var insertions []insertion

	for i, b := range blocks {
		if b.Kind != scan.BlockHeading || b.SimKind == "" {
			continue
		}

		window := simWindow(blocks, i)
		var details *scan.Block
		hasIframe := false
		for j := range window {
			switch window[j].Kind {
			case scan.BlockDetails:
				if details == nil {
					details = &window[j]
				}
			case scan.BlockIframe:
				hasIframe = true
			}
		}
		if details != nil && !hasIframe {
			if _, _, _, ok := scan.ParseIframe(details.Text); ok {
				hasIframe = true
			}
		}

		if !hasIframe && details != nil {
			detailText := details.Text
			simID := scan.InferSimID(b.Title, detailText, "")

			height := DefaultHeight
			if opts.FixHeights {
				if h, ok := CanvasHeight(filepath.Join(simsDir, simID)); ok {
					height = fmt.Sprintf("%dpx", h+2)
				}
			}

			iframeLine := fmt.Sprintf(
				`<iframe src="../../sims/%s/main.html" width="100%%" height="%s" scrolling="no"></iframe>`,
				simID, height)
			fullscreenLine := fmt.Sprintf("[Run %s Fullscreen](../../sims/%s/main.html)", b.Title, simID)

			insertions = append(insertions, insertion{
				line:  details.Line,
				added: []string{"", iframeLine, fullscreenLine, ""},
			})
			changes = append(changes, fmt.Sprintf(
				"inserted iframe for %q before details at line %d", simID, details.Line))
			continue
		}

		if hasIframe && opts.FixHeights {
			for _, wb := range window {
				if wb.Kind != scan.BlockIframe {
					continue
				}
				h, ok := CanvasHeight(filepath.Join(simsDir, wb.SimID))
				if !ok {
					break
				}
				correct := fmt.Sprintf("%dpx", h+2)
				if wb.Height != correct {
					idx := wb.Line - 1
					lines[idx] = heightAttrRe.ReplaceAllString(lines[idx],
						fmt.Sprintf(`height="%s"`, correct))
					changes = append(changes, fmt.Sprintf(
						"updated height for %s to %s", wb.SimID, correct))
				}
				break
			}
		}
	}

	// Apply insertions last-first so earlier line numbers stay valid.
	sort.Slice(insertions, func(i, j int) bool { return insertions[i].line > insertions[j].line })
	for _, ins := range insertions {
		idx := ins.line - 1
		lines = append(lines[:idx], append(append([]string{}, ins.added...), lines[idx:]...)...)
	}

	if len(changes) == 0 {
		return content, nil
	}
	return strings.Join(lines, "\n"), changes
}

// simWindow returns the blocks between heading i and the next heading of
// the same or higher level.
func simWindow(blocks []scan.Block, i int) []scan.Block {
	level := blocks[i].Level
	for j := i + 1; j < len(blocks); j++ {
		if blocks[j].Kind == scan.BlockHeading && blocks[j].Level <= level {
			return blocks[i+1 : j]
		}
	}
	return blocks[i+1:]
}

// Run applies the maintenance passes to every chapter under chaptersDir
// matching the filter. Returns the total change count. Dry runs report
// changes without writing.
func Run(chaptersDir, simsDir, filter string, opts Options, w io.Writer) (int, error) {
	entries, err := os.ReadDir(chaptersDir)
	if err != nil {
		return 0, fmt.Errorf("reading chapters directory %s: %w", chaptersDir, err)
	}

	total := 0
	matched := false
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !scan.MatchTarget(filter, name) {
			continue
		}
		indexPath := filepath.Join(chaptersDir, name, scan.ChapterEntryFile)
		data, err := os.ReadFile(indexPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			fmt.Fprintf(w, "skipped %s: %v\n", name, err)
			continue
		}
		matched = true

		updated, changes := ProcessChapter(string(data), simsDir, opts)
		if len(changes) == 0 {
			if opts.Verbose {
				fmt.Fprintf(w, "%s: no changes needed\n", name)
			}
			continue
		}

		for _, c := range changes {
			if opts.DryRun {
				fmt.Fprintf(w, "[dry-run] %s: %s\n", name, c)
			} else if opts.Verbose {
				fmt.Fprintf(w, "%s: %s\n", name, c)
			}
		}
		total += len(changes)

		if opts.DryRun {
			continue
		}
		if !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
		if err := os.WriteFile(indexPath, []byte(updated), 0o644); err != nil {
			return total, fmt.Errorf("writing %s: %w", indexPath, err)
		}
	}

	if filter != "" && !matched {
		return total, fmt.Errorf("no chapter matches %q under %s", filter, chaptersDir)
	}
	return total, nil
}
