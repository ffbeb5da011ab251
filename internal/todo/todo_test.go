// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package todo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

func TestStripDetailWrapper(t *testing.T) {
	raw := `<details markdown="1">
<summary>Show the specification</summary>
Type: MicroSim

A pendulum the learner can drag.

**Status:** specified
</details>`

	got := StripDetailWrapper(raw)
	if strings.Contains(got, "<details") || strings.Contains(got, "</details>") {
		t.Errorf("wrapper tags survived:\n%s", got)
	}
	if strings.Contains(got, "<summary>") {
		t.Errorf("summary survived:\n%s", got)
	}
	if strings.Contains(got, "**Status:**") {
		t.Errorf("status line survived:\n%s", got)
	}
	if !strings.Contains(got, "A pendulum the learner can drag.") {
		t.Errorf("prose lost:\n%s", got)
	}
	if !strings.Contains(got, "Type: MicroSim") {
		t.Errorf("structured fields should be kept:\n%s", got)
	}
}

func TestStripDetailWrapperNested(t *testing.T) {
	// Only the outer wrapper comes off; an inner collapsible section is part
	// of the specification prose and survives intact.
	raw := `<details markdown="1">
<summary>Show the specification</summary>
Intro text.
<details markdown="1">
<summary>Inner notes</summary>
Inner body.
</details>
</details>`

	got := StripDetailWrapper(raw)
	if !strings.Contains(got, `<details markdown="1">`) {
		t.Errorf("inner details open tag lost:\n%s", got)
	}
	if !strings.Contains(got, "<summary>Inner notes</summary>") {
		t.Errorf("inner summary lost:\n%s", got)
	}
	if !strings.Contains(got, "Inner body.") {
		t.Errorf("inner body lost:\n%s", got)
	}
	if strings.Contains(got, "<summary>Show the specification</summary>") {
		t.Errorf("outer summary survived:\n%s", got)
	}
	if strings.HasPrefix(got, "<details") {
		t.Errorf("outer open tag survived:\n%s", got)
	}
	// One close tag remains, matching the inner open.
	if n := strings.Count(got, "</details>"); n != 1 {
		t.Errorf("close tag count = %d, want 1:\n%s", n, got)
	}
}

func TestStripDetailWrapperEmpty(t *testing.T) {
	if got := StripDetailWrapper(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func writeSim(t *testing.T, simsDir, simID string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(simsDir, simID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGenerate(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	simsDir := t.TempDir()
	// done-sim has a substantive script and does not appear in the report.
	writeSim(t, simsDir, "done-sim", map[string]string{
		"main.html":   "<html></html>",
		"done-sim.js": strings.Repeat("draw();\n", 60),
	})

	specs := []types.SimSpec{
		{
			SimID: "done-sim", Title: "Done Sim", Chapter: "ch02",
			Library: "p5.js",
		},
		{
			SimID: "pendulum", Title: "Pendulum", Chapter: "ch01",
			Library: "p5.js", TaxonomyLevel: "Apply",
			RawDetail: "<details markdown=\"1\">\nDrag the bob.\n</details>",
		},
		{
			SimID: "timeline", Title: "Timeline", Chapter: "ch02",
			Library: "vis-timeline",
		},
	}

	content, remaining := Generate(specs, simsDir)
	if remaining != 2 {
		t.Fatalf("remaining = %d, want 2", remaining)
	}

	if !strings.HasPrefix(content, "# MicroSim TODO — Remaining Implementations\n") {
		t.Errorf("bad report title:\n%.80s", content)
	}
	if !strings.Contains(content, "**Generated:** 2026-03-14 | **Remaining:** 2 of 3") {
		t.Error("generated line wrong")
	}

	if !strings.Contains(content, "| ch01 | 1 | 0 | 1 |") {
		t.Errorf("ch01 row missing:\n%s", content)
	}
	if !strings.Contains(content, "| ch02 | 2 | 1 | 1 |") {
		t.Errorf("ch02 row missing:\n%s", content)
	}

	// Library table counts remaining sims only.
	if !strings.Contains(content, "| p5.js | 1 |") || !strings.Contains(content, "| vis-timeline | 1 |") {
		t.Errorf("library table wrong:\n%s", content)
	}

	if strings.Contains(content, "## done-sim") {
		t.Error("implemented sim listed in the report")
	}
	if !strings.Contains(content, "- **Bloom:** Apply (L3)") {
		t.Error("bloom label missing")
	}
	if !strings.Contains(content, "- **Target:** `docs/sims/pendulum/pendulum.js`") {
		t.Error("target path missing")
	}
	if !strings.Contains(content, "### Specification\n\nDrag the bob.") {
		t.Errorf("specification prose missing:\n%s", content)
	}

	// Per-sim sections ordered by chapter.
	if strings.Index(content, "## pendulum") > strings.Index(content, "## timeline") {
		t.Error("sections not ordered by chapter")
	}
}

func TestGenerateEmptyLibrary(t *testing.T) {
	specs := []types.SimSpec{{SimID: "x", Title: "X", Chapter: "ch01"}}
	content, remaining := Generate(specs, t.TempDir())
	if remaining != 1 {
		t.Fatalf("remaining = %d", remaining)
	}
	if !strings.Contains(content, "| Unknown | 1 |") {
		t.Errorf("missing library should be tallied as Unknown:\n%s", content)
	}
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	outputPath := filepath.Join(root, "docs", "sims", "TODO.md")

	specs := []types.SimSpec{{SimID: "x", Title: "X", Chapter: "ch01"}}
	remaining, err := Write(specs, filepath.Join(root, "sims"), outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "## x") {
		t.Errorf("report content wrong:\n%s", data)
	}
}
