// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

const chapterWithSim = `# Chapter 3: Geometry

Some prose about geometry.

#### Diagram: Point Line and Plane

<details markdown="1">
<summary>Show the specification</summary>
Type: MicroSim
A simple sketch where students identify points, lines, and planes.
</details>

## Next Section
`

func TestScanChapterBasic(t *testing.T) {
	specs := ScanChapter(chapterWithSim, "ch03-geometry")
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}

	s := specs[0]
	if s.SimID != "point-line-and-plane" {
		t.Errorf("SimID = %q, want %q", s.SimID, "point-line-and-plane")
	}
	if s.Title != "Point Line and Plane" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.HeadingKind != types.HeadingDiagram {
		t.Errorf("HeadingKind = %q, want Diagram", s.HeadingKind)
	}
	if s.Chapter != "ch03-geometry" {
		t.Errorf("Chapter = %q", s.Chapter)
	}
	if s.Summary != "Show the specification" {
		t.Errorf("Summary = %q", s.Summary)
	}
	// "MicroSim" in the detail text resolves the library default.
	if s.Library != "p5.js" {
		t.Errorf("Library = %q, want p5.js", s.Library)
	}
	if s.TaxonomyLevel != "Remember" {
		t.Errorf("TaxonomyLevel = %q, want Remember", s.TaxonomyLevel)
	}
	if s.ElementType != "MicroSim" {
		t.Errorf("ElementType = %q, want MicroSim", s.ElementType)
	}
	if s.HasEmbed() {
		t.Error("spec should have no embed")
	}
	if len(s.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", s.Diagnostics)
	}
}

func TestScanChapterEmbedInsideDetails(t *testing.T) {
	content := `#### Drawing: Bouncing Ball

<details markdown="1">
<summary>Spec</summary>
<iframe src="../../sims/bouncing-ball/main.html" height="450px" width="100%"></iframe>
**Library:** p5.js
</details>
`
	specs := ScanChapter(content, "ch01")
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	s := specs[0]
	if !s.HasEmbed() {
		t.Fatal("embed inside the details block should be detected")
	}
	if s.EmbedSrc != "../../sims/bouncing-ball/main.html" {
		t.Errorf("EmbedSrc = %q", s.EmbedSrc)
	}
	if s.EmbedHeight != "450px" {
		t.Errorf("EmbedHeight = %q", s.EmbedHeight)
	}
	if s.HeadingKind != types.HeadingDrawing {
		t.Errorf("HeadingKind = %q, want Drawing", s.HeadingKind)
	}
}

func TestScanChapterEmbedDerivedSimID(t *testing.T) {
	// The embed's directory wins over the title slug so an already-deployed
	// sim is reconciled under its real identifier.
	content := `#### Diagram: Point Line and Plane

<iframe src="../../sims/plp/main.html" height="450px" width="100%"></iframe>

<details markdown="1">
Students identify points, lines, and planes.
</details>
`
	specs := ScanChapter(content, "ch03-geometry")
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].SimID != "plp" {
		t.Errorf("SimID = %q, want embed-derived %q", specs[0].SimID, "plp")
	}

	// An explicit field still outranks the embed.
	content = `#### Diagram: Point Line and Plane

<iframe src="../../sims/plp/main.html" height="450px" width="100%"></iframe>

<details markdown="1">
Directory name: named-dir
</details>
`
	specs = ScanChapter(content, "ch03-geometry")
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].SimID != "named-dir" {
		t.Errorf("SimID = %q, want %q", specs[0].SimID, "named-dir")
	}
}

func TestScanChapterDuplicateSimID(t *testing.T) {
	content := `#### Diagram: Same Thing

<details markdown="1">
text one
</details>

#### Diagram: Same Thing

<details markdown="1">
text two
</details>
`
	specs := ScanChapter(content, "ch02")
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if len(specs[0].Diagnostics) != 0 {
		t.Errorf("first spec should be clean, got %v", specs[0].Diagnostics)
	}
	if len(specs[1].Diagnostics) == 0 {
		t.Error("second spec should carry a duplicate sim_id diagnostic")
	}
}

func TestScanChapterUnterminatedDetails(t *testing.T) {
	content := `#### Diagram: Broken Block

<details markdown="1">
this block never closes
`
	specs := ScanChapter(content, "ch04")
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if len(specs[0].Diagnostics) == 0 {
		t.Error("unterminated details block should produce a diagnostic")
	}
	if specs[0].SimID != "broken-block" {
		t.Errorf("SimID = %q, want broken-block", specs[0].SimID)
	}
}

func TestScanChapterWindowEndsAtNextHeading(t *testing.T) {
	content := `#### Diagram: First Sim

Some prose but no details block here.

#### Diagram: Second Sim

<details markdown="1">
**Library:** Mermaid
</details>
`
	specs := ScanChapter(content, "ch05")
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].RawDetail != "" {
		t.Errorf("first sim must not absorb the second sim's details block")
	}
	if specs[1].Library != "Mermaid" {
		t.Errorf("second sim Library = %q, want Mermaid", specs[1].Library)
	}
}

func TestParseBlocksNestedDetails(t *testing.T) {
	content := `<details markdown="1">
outer
<details markdown="1">
inner
</details>
still outer
</details>
after
`
	blocks := ParseBlocks(content)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Kind != BlockDetails {
		t.Fatalf("Kind = %v, want BlockDetails", b.Kind)
	}
	if !b.Terminated {
		t.Error("nested block should close at the matching tag")
	}
	if !bytes.Contains([]byte(b.Text), []byte("still outer")) {
		t.Error("outer block should include content after the nested close")
	}
	if bytes.Contains([]byte(b.Text), []byte("after")) {
		t.Error("block text must stop at the matching close tag")
	}
}

func TestParseIframe(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantID     string
		wantHeight string
		wantOK     bool
	}{
		{
			"src first",
			`<iframe src="../../sims/my-sim/main.html" height="450px" width="100%"></iframe>`,
			"my-sim", "450px", true,
		},
		{
			"height first",
			`<iframe height="500px" width="100%" src="../../sims/other-sim/main.html"></iframe>`,
			"other-sim", "500px", true,
		},
		{
			"absolute path",
			`<iframe src="/sims/abs-sim/main.html" height="400px"></iframe>`,
			"abs-sim", "400px", true,
		},
		{
			"not a sim embed",
			`<iframe src="https://youtube.com/embed/abc" height="300px"></iframe>`,
			"", "", false,
		},
		{
			"no iframe",
			"just some text with sims/fake/main.html mentioned",
			"", "", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, id, height, ok := ParseIframe(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("simID = %q, want %q", id, tt.wantID)
			}
			if height != tt.wantHeight {
				t.Errorf("height = %q, want %q", height, tt.wantHeight)
			}
		})
	}
}

func TestChapters(t *testing.T) {
	dir := t.TempDir()

	writeChapter := func(name, content string) {
		chDir := filepath.Join(dir, name)
		if err := os.MkdirAll(chDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(chDir, "index.md"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	writeChapter("ch01-intro", chapterWithSim)
	writeChapter("ch02-graphs", `#### Diagram: Graph Demo

<details markdown="1">
**Library:** vis-network
</details>
`)
	// Chapter without an entry file is skipped.
	if err := os.MkdirAll(filepath.Join(dir, "ch03-empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	specs, summary, err := Chapters(dir, "", &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Chapters != 2 {
		t.Errorf("Chapters = %d, want 2", summary.Chapters)
	}
	if summary.Specs != 2 || len(specs) != 2 {
		t.Errorf("Specs = %d (len %d), want 2", summary.Specs, len(specs))
	}

	// Glob filter narrows to one chapter.
	specs, summary, err = Chapters(dir, "ch02-*", &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Chapters != 1 || len(specs) != 1 {
		t.Fatalf("filtered scan: chapters %d, specs %d", summary.Chapters, len(specs))
	}
	if specs[0].Library != "vis-network" {
		t.Errorf("Library = %q, want vis-network", specs[0].Library)
	}
}

func TestChaptersCrossChapterDuplicate(t *testing.T) {
	dir := t.TempDir()

	writeChapter := func(name string) {
		chDir := filepath.Join(dir, name)
		if err := os.MkdirAll(chDir, 0o755); err != nil {
			t.Fatal(err)
		}
		content := `#### Diagram: Shared Sim

<details markdown="1">
text
</details>
`
		if err := os.WriteFile(filepath.Join(chDir, "index.md"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeChapter("ch01-first")
	writeChapter("ch02-second")

	var buf bytes.Buffer
	specs, summary, err := Chapters(dir, "", &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if len(specs[0].Diagnostics) != 0 {
		t.Errorf("first declaration should be clean, got %v", specs[0].Diagnostics)
	}
	if len(specs[1].Diagnostics) == 0 {
		t.Error("second chapter's declaration should carry a duplicate diagnostic")
	}
	if summary.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", summary.Malformed)
	}
}

func TestMatchTarget(t *testing.T) {
	tests := []struct {
		filter string
		name   string
		want   bool
	}{
		{"", "anything", true},
		{"ch01", "ch01", true},
		{"ch01", "ch02", false},
		{"ch0*", "ch01-intro", true},
		{"*-graphs", "ch02-graphs", true},
		{"*-graphs", "ch02-trees", false},
	}
	for _, tt := range tests {
		if got := MatchTarget(tt.filter, tt.name); got != tt.want {
			t.Errorf("MatchTarget(%q, %q) = %v, want %v", tt.filter, tt.name, got, tt.want)
		}
	}
}
