// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nav

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSim(t *testing.T, simsDir, name, index string) {
	t.Helper()
	dir := filepath.Join(simsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if index != "" {
		if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte(index), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollectEntries(t *testing.T) {
	simsDir := t.TempDir()

	writeSim(t, simsDir, "zebra-sim", "---\ntitle: Zebra Crossing\n---\n\n# Zebra\n")
	writeSim(t, simsDir, "alpha-sim", "# Alpha From Heading\n\nbody\n")
	writeSim(t, simsDir, "bare-sim", "no frontmatter, no heading\n")
	writeSim(t, simsDir, "no-index", "")
	writeSim(t, simsDir, ".hidden", "# Hidden\n")

	entries, err := CollectEntries(simsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}

	// Sorted case-insensitively by title.
	wantTitles := []string{"Alpha From Heading", "Bare Sim", "Zebra Crossing"}
	for i, want := range wantTitles {
		if entries[i].Title != want {
			t.Errorf("entries[%d].Title = %q, want %q", i, entries[i].Title, want)
		}
	}
	if entries[2].Path != "sims/zebra-sim/index.md" {
		t.Errorf("Path = %q", entries[2].Path)
	}
}

const mkdocsFixture = `site_name: Test Book
nav:
  - Home: index.md
  - Chapters:
    - Intro: chapters/ch01/index.md
  - MicroSims:
    - List of MicroSims: sims/index.md
    - Old Entry: sims/old-entry/index.md

  - Glossary: glossary.md
theme:
  name: material
`

func TestRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	if err := os.WriteFile(path, []byte(mkdocsFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	entries := []Entry{
		{Title: "Bouncing Ball", Path: "sims/bouncing-ball/index.md"},
		{Title: "Graph Demo", Path: "sims/graph-demo/index.md"},
	}

	var buf bytes.Buffer
	if err := Rewrite(path, "MicroSims", entries, false, &buf); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "    - Bouncing Ball: sims/bouncing-ball/index.md") {
		t.Error("new entry missing")
	}
	if !strings.Contains(content, "    - List of MicroSims: sims/index.md") {
		t.Error("list link missing")
	}
	if strings.Contains(content, "Old Entry") {
		t.Error("stale entry survived the rewrite")
	}
	if !strings.Contains(content, "  - Glossary: glossary.md") {
		t.Error("content after the section was lost")
	}
	if !strings.Contains(content, "site_name: Test Book") {
		t.Error("content before the section was lost")
	}
	if !strings.Contains(content, "theme:") {
		t.Error("trailing config was lost")
	}
}

func TestRewriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	if err := os.WriteFile(path, []byte(mkdocsFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	entries := []Entry{{Title: "Bouncing Ball", Path: "sims/bouncing-ball/index.md"}}

	var buf bytes.Buffer
	if err := Rewrite(path, "MicroSims", entries, false, &buf); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)

	if err := Rewrite(path, "MicroSims", entries, false, &buf); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if !bytes.Equal(first, second) {
		t.Errorf("second rewrite changed the file:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRewriteMissingSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	original := "site_name: No Nav Here\nnav:\n  - Home: index.md\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := Rewrite(path, "MicroSims", []Entry{{Title: "X", Path: "sims/x/index.md"}}, false, &buf)
	if err == nil {
		t.Fatal("expected an error for a missing section header")
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Error("file must be untouched when the section is missing")
	}
}

func TestRewriteDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	if err := os.WriteFile(path, []byte(mkdocsFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := Rewrite(path, "MicroSims", []Entry{{Title: "X", Path: "sims/x/index.md"}}, true, &buf)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != mkdocsFixture {
		t.Error("dry run must not modify the file")
	}
	if !strings.Contains(buf.String(), "[dry-run]") {
		t.Errorf("dry run output missing: %q", buf.String())
	}
}
