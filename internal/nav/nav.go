// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nav regenerates the MicroSims section of a mkdocs.yml nav from
// the sims directory. The rest of the nav file is never touched, so the
// rewrite is safe to run repeatedly.
package nav

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/microsim-engine/internal/frontmatter"
)

// Entry is one sim link in the nav section.
type Entry struct {
	Title string
	Path  string
}

var (
	headingTitleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	titleCaser     = cases.Title(language.English)
)

// CollectEntries scans simsDir for sim directories that carry an entry
// document and returns nav entries sorted case-insensitively by title.
// The title comes from frontmatter, then the first level-1 heading, then
// the title-cased directory name.
func CollectEntries(simsDir string) ([]Entry, error) {
	dirs, err := os.ReadDir(simsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sims directory %s: %w", simsDir, err)
	}

	var entries []Entry
	for _, d := range dirs {
		name := d.Name()
		if !d.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		indexPath := filepath.Join(simsDir, name, "index.md")
		data, err := os.ReadFile(indexPath)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Title: extractTitle(data, name),
			Path:  fmt.Sprintf("sims/%s/index.md", name),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
	return entries, nil
}

func extractTitle(data []byte, dirName string) string {
	fields, body, err := frontmatter.Decode(data)
	if err == nil {
		if title := frontmatter.String(fields, "title"); title != "" {
			return title
		}
	} else {
		body = string(data)
	}
	if m := headingTitleRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return titleCaser.String(strings.ReplaceAll(dirName, "-", " "))
}

// Section renders the replacement nav block for sectionName.
func Section(sectionName string, entries []Entry) []string {
	lines := []string{fmt.Sprintf("  - %s:", sectionName)}
	lines = append(lines, "    - List of MicroSims: sims/index.md")
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("    - %s: %s", e.Title, e.Path))
	}
	return lines
}

// Rewrite replaces the sectionName block in the mkdocs file with a freshly
// generated one. The section body is the run of child entries, blank
// lines, and comments after the header; everything outside it is
// preserved byte-for-byte. A missing section header is an error and
// nothing is written.
func Rewrite(mkdocsPath, sectionName string, entries []Entry, dryRun bool, w io.Writer) error {
	data, err := os.ReadFile(mkdocsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", mkdocsPath, err)
	}

	lines := strings.Split(string(data), "\n")
	header := fmt.Sprintf("- %s:", sectionName)

	start := -1
	end := -1
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if start < 0 {
			if stripped == header {
				start = i
			}
			continue
		}
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if strings.HasPrefix(line, "    ") && strings.HasPrefix(stripped, "-") {
			continue
		}
		end = i
		break
	}

	if start < 0 {
		return fmt.Errorf("section %q not found in %s", sectionName, mkdocsPath)
	}
	if end < 0 {
		end = len(lines)
	}

	// Trailing blanks belong to the section; trim them so reruns converge
	// on the same spacing.
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	section := Section(sectionName, entries)

	if dryRun {
		fmt.Fprintf(w, "[dry-run] would replace lines %d-%d (%d lines) with %d lines\n",
			start+1, end, end-start, len(section))
		fmt.Fprintf(w, "[dry-run] %s nav entries: %d\n", sectionName, len(entries))
		return nil
	}

	var out []string
	out = append(out, lines[:start]...)
	out = append(out, section...)
	out = append(out, "")
	out = append(out, lines[end:]...)

	content := strings.Join(out, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if err := os.WriteFile(mkdocsPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mkdocsPath, err)
	}
	fmt.Fprintf(w, "updated %s section in %s: %d entries\n", sectionName, mkdocsPath, len(entries))
	return nil
}
