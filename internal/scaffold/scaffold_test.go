// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scaffold

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

func testConfig() types.ScaffoldConfig {
	return types.ScaffoldConfig{
		SimsDir:        "docs/sims",
		DefaultLibrary: "p5.js",
		Creator:        "TODO: Add creator",
		Subject:        "TODO: Add subject",
	}
}

func testSpec() types.SimSpec {
	return types.SimSpec{
		SimID:         "bouncing-ball",
		Title:         "Bouncing Ball",
		Chapter:       "ch01-motion",
		Library:       "p5.js",
		TaxonomyLevel: "Apply",
	}
}

func TestFiles(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	files, err := Files(testSpec(), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"main.html", "index.md", "metadata.json"} {
		if files[name] == "" {
			t.Errorf("missing %s content", name)
		}
	}

	html := files["main.html"]
	if !strings.Contains(html, `name="schema"`) || !strings.Contains(html, "intelligent-textbooks") {
		t.Error("main.html missing schema meta tag")
	}
	if !strings.Contains(html, "<main></main>") {
		t.Error("main.html missing <main> element")
	}
	if !strings.Contains(html, "p5@1.11.10/lib/p5.js") {
		t.Error("main.html missing p5.js CDN reference")
	}
	if !strings.Contains(html, `src="bouncing-ball.js"`) {
		t.Error("main.html missing sim script reference")
	}

	index := files["index.md"]
	if !strings.HasPrefix(index, "---\n") {
		t.Error("index.md missing frontmatter")
	}
	if !strings.Contains(index, "title: Bouncing Ball") {
		t.Error("index.md missing title field")
	}
	if !strings.Contains(index, "quality_score: 0") {
		t.Error("index.md missing quality_score field")
	}
	if !strings.Contains(index, `<iframe src="main.html"`) {
		t.Error("index.md missing embed iframe")
	}
	if !strings.Contains(index, "Fullscreen](./main.html)") {
		t.Error("index.md missing fullscreen link")
	}

	var meta types.SimMetadata
	if err := json.Unmarshal([]byte(files["metadata.json"]), &meta); err != nil {
		t.Fatalf("metadata.json is not valid JSON: %v", err)
	}
	if meta.Title != "Bouncing Ball" {
		t.Errorf("metadata title = %q", meta.Title)
	}
	if meta.Date != "2026-03-14" {
		t.Errorf("metadata date = %q, want 2026-03-14", meta.Date)
	}
	if meta.Educational.BloomsTaxonomy != "Apply" {
		t.Errorf("bloomsTaxonomy = %q, want Apply", meta.Educational.BloomsTaxonomy)
	}
	if meta.Technical.Framework != "p5.js" {
		t.Errorf("framework = %q, want p5.js", meta.Technical.Framework)
	}
	if meta.Chapter != "ch01-motion" {
		t.Errorf("chapter = %q", meta.Chapter)
	}
}

func TestFilesLibraryFallback(t *testing.T) {
	spec := testSpec()
	spec.Library = ""
	files, err := Files(spec, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(files["main.html"], "p5@1.11.10") {
		t.Error("empty library should fall back to the default CDN")
	}

	spec.Library = "vis-network"
	files, err = Files(spec, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(files["main.html"], "vis-network@9.1.9") {
		t.Error("vis-network CDN not used")
	}
}

func TestFilesDisplayTitleFallback(t *testing.T) {
	// A title that is just the identifier renders as its title-cased,
	// spaced form; the description uses the lowercase variant.
	spec := testSpec()
	spec.Title = spec.SimID

	files, err := Files(spec, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	index := files["index.md"]
	if !strings.Contains(index, "title: Bouncing Ball") {
		t.Errorf("display title not title-cased:\n%s", index)
	}
	if !strings.Contains(index, "description: Interactive p5.js MicroSim for bouncing ball.") {
		t.Errorf("description not lowercased:\n%s", index)
	}
	if !strings.Contains(index, "# Bouncing Ball") {
		t.Errorf("heading not title-cased:\n%s", index)
	}
	if !strings.Contains(files["main.html"], "<title>Bouncing Ball using p5.js</title>") {
		t.Errorf("html title not title-cased:\n%s", files["main.html"])
	}
}

func TestEmitCreatesFiles(t *testing.T) {
	simsDir := t.TempDir()
	var buf bytes.Buffer

	res, err := Emit(testSpec(), simsDir, testConfig(), Options{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 3 || len(res.Skipped) != 0 {
		t.Fatalf("created %d, skipped %d; want 3, 0", len(res.Created), len(res.Skipped))
	}

	for _, name := range []string{"main.html", "index.md", "metadata.json"} {
		if _, err := os.Stat(filepath.Join(simsDir, "bouncing-ball", name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestEmitNeverOverwrites(t *testing.T) {
	simsDir := t.TempDir()
	var buf bytes.Buffer

	if _, err := Emit(testSpec(), simsDir, testConfig(), Options{}, &buf); err != nil {
		t.Fatal(err)
	}

	// Modify a file, then re-run without force.
	htmlPath := filepath.Join(simsDir, "bouncing-ball", "main.html")
	if err := os.WriteFile(htmlPath, []byte("hand-edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Emit(testSpec(), simsDir, testConfig(), Options{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 3 || len(res.Created) != 0 {
		t.Fatalf("created %d, skipped %d; want 0, 3", len(res.Created), len(res.Skipped))
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hand-edited" {
		t.Error("existing file was overwritten without --force")
	}
}

func TestEmitForce(t *testing.T) {
	simsDir := t.TempDir()
	var buf bytes.Buffer

	if _, err := Emit(testSpec(), simsDir, testConfig(), Options{}, &buf); err != nil {
		t.Fatal(err)
	}
	htmlPath := filepath.Join(simsDir, "bouncing-ball", "main.html")
	if err := os.WriteFile(htmlPath, []byte("hand-edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Emit(testSpec(), simsDir, testConfig(), Options{Force: true}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 3 {
		t.Fatalf("created %d, want 3", len(res.Created))
	}

	data, _ := os.ReadFile(htmlPath)
	if string(data) == "hand-edited" {
		t.Error("force should overwrite existing files")
	}
}

func TestEmitDryRun(t *testing.T) {
	simsDir := t.TempDir()
	var buf bytes.Buffer

	res, err := Emit(testSpec(), simsDir, testConfig(), Options{DryRun: true}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 3 {
		t.Fatalf("dry run should report 3 pending creations, got %d", len(res.Created))
	}
	if _, err := os.Stat(filepath.Join(simsDir, "bouncing-ball")); !os.IsNotExist(err) {
		t.Error("dry run must not create the sim directory")
	}
}

func TestEmitAll(t *testing.T) {
	simsDir := t.TempDir()
	var buf bytes.Buffer

	specs := []types.SimSpec{
		testSpec(),
		{SimID: "graph-demo", Title: "Graph Demo", Chapter: "ch02", Library: "vis-network"},
	}

	summary := EmitAll(specs, simsDir, testConfig(), Options{}, &buf)
	if summary.Scaffolded != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 2 scaffolded", summary)
	}
	if summary.Total() != 2 {
		t.Errorf("Total() = %d, want 2", summary.Total())
	}

	// Second run finds every file in place.
	summary = EmitAll(specs, simsDir, testConfig(), Options{}, &buf)
	if summary.Scaffolded != 0 || summary.Skipped != 2 {
		t.Fatalf("second run summary = %+v, want 2 skipped", summary)
	}
}
