// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate scores on-disk sims against the 100-point quality
// rubric. Every category check returns points earned plus remediation
// issues; scoring never fails on malformed input, it deducts.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/microsim-engine/internal/frontmatter"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

// Categories in rubric order. Order is fixed so reports and issue lists
// are deterministic.
var categoryOrder = []string{
	"main_html", "metadata", "index_md", "image",
	"lesson_plan", "references", "p5_conventions",
}

// MaxScore is the rubric total.
const MaxScore = 100

// Score validates one sim directory and returns its quality report.
func Score(simDir, simID string) types.QualityReport {
	report := types.QualityReport{
		SimID:      simID,
		Categories: map[string]int{},
	}

	checks := map[string]func(string) (int, []string){
		"main_html":      CheckMainHTML,
		"metadata":       CheckMetadata,
		"index_md":       CheckIndex,
		"image":          CheckImage,
		"lesson_plan":    CheckLessonPlan,
		"references":     CheckReferences,
		"p5_conventions": CheckLibraryConventions,
	}

	for _, cat := range categoryOrder {
		pts, issues := checks[cat](simDir)
		report.Categories[cat] = pts
		report.Score += pts
		report.Issues = append(report.Issues, issues...)
	}

	return report
}

// CheckMainHTML awards up to 10 points: the file exists (5), declares the
// schema meta tag (3), and hosts a <main> element (2).
func CheckMainHTML(simDir string) (int, []string) {
	data, err := os.ReadFile(filepath.Join(simDir, "main.html"))
	if err != nil {
		return 0, []string{"main.html missing"}
	}
	content := string(data)

	score := 5
	var issues []string

	if strings.Contains(content, `name="schema"`) && strings.Contains(content, "intelligent-textbooks") {
		score += 3
	} else {
		issues = append(issues, "main.html: missing schema meta tag")
	}

	if strings.Contains(content, "<main>") || strings.Contains(content, "<main ") {
		score += 2
	} else {
		issues = append(issues, "main.html: missing <main> tag")
	}

	return score, issues
}

// CheckMetadata awards up to 30 points: descriptor present (10), required
// fields populated (tiered 10/5/0), educational section (5), pedagogical
// section (5). Descriptors may nest the core fields under
// microsim.dublinCore.
func CheckMetadata(simDir string) (int, []string) {
	data, err := os.ReadFile(filepath.Join(simDir, "metadata.json"))
	if err != nil {
		return 0, []string{"metadata.json missing"}
	}

	score := 10
	var issues []string

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		issues = append(issues, "metadata.json: invalid JSON")
		return score, issues
	}

	core := doc
	if ms, ok := doc["microsim"].(map[string]any); ok {
		if dc, ok := ms["dublinCore"].(map[string]any); ok {
			core = dc
		} else {
			core = map[string]any{}
		}
	}

	var missing []string
	for _, field := range types.RequiredMetadataFields {
		if v, ok := core[field]; !ok || v == nil || v == "" {
			missing = append(missing, field)
		}
	}
	switch {
	case len(missing) <= 1:
		score += 10
	case len(missing) <= 3:
		score += 5
	}

	if hasSection(doc, core, "educational") {
		score += 5
	} else {
		issues = append(issues, "metadata.json: missing educational section")
	}

	if hasSection(doc, core, "pedagogical") {
		score += 5
	} else {
		issues = append(issues, "metadata.json: missing pedagogical section")
	}

	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("metadata.json: missing fields: %s",
			strings.Join(missing, ", ")))
	}

	return score, issues
}

// hasSection reports whether key holds a non-empty value at the document
// top level or inside the resolved core block.
func hasSection(doc, core map[string]any, key string) bool {
	for _, m := range []map[string]any{doc, core} {
		if v, ok := m[key]; ok && v != nil {
			return true
		}
	}
	return false
}

var (
	indexIframeRe     = regexp.MustCompile(`(?i)<iframe[^>]*src=["']main\.html["']`)
	fullscreenLinkRe  = regexp.MustCompile(`\[.*(?:[Ff]ull\s*[Ss]creen|[Rr]un).*\]\(.*main\.html`)
	codeBlockRe       = regexp.MustCompile("(?s)```(?:html)?\\s*\n(.*?)\n```")
	aboutSectionRe    = regexp.MustCompile(`(?m)^##\s+(?:Description|About|Overview|How [Tt]o [Uu]se|Introduction)`)
	lessonPlanRe      = regexp.MustCompile(`(?m)^##\s+[Ll]esson\s*[Pp]lan`)
	referencesRe      = regexp.MustCompile(`(?m)^##\s+[Rr]eferences`)
	domWidgetCallRe   = regexp.MustCompile(`create(?:Button|Slider|Checkbox|Select|Input|Radio)\s*\(`)
)

// CheckIndex awards up to 35 points for the entry document's structure:
// markdown title (2), frontmatter title+description (3), social preview
// images (5), iframe embed (10), fullscreen link (5), copy-paste iframe
// example (5), about section (5).
func CheckIndex(simDir string) (int, []string) {
	data, err := os.ReadFile(filepath.Join(simDir, "index.md"))
	if err != nil {
		return 0, []string{"index.md missing"}
	}
	content := string(data)

	score := 0
	var issues []string

	fields, body, err := frontmatter.Decode(data)
	if err != nil {
		fields = nil
		body = content
	}

	if hasMarkdownTitle(body) {
		score += 2
	} else {
		issues = append(issues, "index.md: missing # title header")
	}

	if frontmatter.String(fields, "title") != "" && frontmatter.String(fields, "description") != "" {
		score += 3
	} else {
		issues = append(issues, "index.md: missing title/description in frontmatter")
	}

	rawFM, _, fmErr := frontmatter.Split(data)
	if frontmatter.String(fields, "image") != "" ||
		(fmErr == nil && strings.Contains(string(rawFM), "og:image")) {
		score += 5
	} else {
		issues = append(issues, "index.md: missing social preview images in frontmatter")
	}

	if indexIframeRe.MatchString(content) {
		score += 10
	} else {
		issues = append(issues, "index.md: missing iframe with src='main.html'")
	}

	if fullscreenLinkRe.MatchString(content) {
		score += 5
	} else {
		issues = append(issues, "index.md: missing fullscreen link")
	}

	if hasIframeExample(content) {
		score += 5
	} else {
		issues = append(issues, "index.md: missing copy-paste iframe example")
	}

	if aboutSectionRe.MatchString(content) {
		score += 5
	} else {
		issues = append(issues, "index.md: missing description/about section")
	}

	return score, issues
}

// hasMarkdownTitle reports whether the body (frontmatter excluded) contains
// a level-1 heading.
func hasMarkdownTitle(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return true
		}
	}
	return false
}

// hasIframeExample looks for a fenced code block embedding main.html.
func hasIframeExample(content string) bool {
	for _, m := range codeBlockRe.FindAllStringSubmatch(content, -1) {
		block := m[1]
		if strings.Contains(strings.ToLower(block), "<iframe") &&
			strings.Contains(block, "main.html") {
			return true
		}
	}
	return false
}

// CheckImage awards 5 points when the sim directory carries a screenshot
// PNG. Favicons do not count.
func CheckImage(simDir string) (int, []string) {
	entries, err := os.ReadDir(simDir)
	if err != nil {
		return 0, []string{"screenshot PNG missing"}
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".png") && name != "favicon.png" && name != "icon.png" {
			return 5, nil
		}
	}
	return 0, []string{"screenshot PNG missing"}
}

// CheckLessonPlan awards 10 points for a Lesson Plan section in the entry
// document.
func CheckLessonPlan(simDir string) (int, []string) {
	data, err := os.ReadFile(filepath.Join(simDir, "index.md"))
	if err != nil {
		return 0, []string{"index.md missing"}
	}
	if lessonPlanRe.Match(data) {
		return 10, nil
	}
	return 0, []string{"index.md: missing Lesson Plan section"}
}

// CheckReferences awards 5 points for a References section in the entry
// document.
func CheckReferences(simDir string) (int, []string) {
	data, err := os.ReadFile(filepath.Join(simDir, "index.md"))
	if err != nil {
		return 0, []string{"index.md missing"}
	}
	if referencesRe.Match(data) {
		return 5, nil
	}
	return 0, []string{"index.md: missing References section"}
}

// CheckLibraryConventions awards up to 5 points for p5.js coding
// conventions: updateCanvasSize (2), no DOM widget calls (2), canvas
// parented via document.querySelector('main') (1). Sims built on other
// libraries get full marks; a p5.js sim with no script gets zero.
func CheckLibraryConventions(simDir string) (int, []string) {
	html, err := os.ReadFile(filepath.Join(simDir, "main.html"))
	if err != nil {
		return 5, nil
	}
	if scan.DetectLibrary(string(html)) != "p5.js" {
		return 5, nil
	}

	var js strings.Builder
	entries, err := os.ReadDir(simDir)
	if err == nil {
		for _, e := range entries {
			if !strings.HasSuffix(e.Name(), ".js") {
				continue
			}
			if data, err := os.ReadFile(filepath.Join(simDir, e.Name())); err == nil {
				js.Write(data)
				js.WriteString("\n")
			}
		}
	}
	content := js.String()
	if content == "" {
		return 0, []string{"p5.js: no JS file found"}
	}

	score := 0
	var issues []string

	if strings.Contains(content, "updateCanvasSize") {
		score += 2
	} else {
		issues = append(issues, "p5.js: missing updateCanvasSize() call")
	}

	if calls := domWidgetCallRe.FindAllString(content, -1); len(calls) == 0 {
		score += 2
	} else {
		seen := map[string]bool{}
		var uniq []string
		for _, c := range calls {
			if !seen[c] {
				seen[c] = true
				uniq = append(uniq, strings.TrimSuffix(strings.TrimSpace(c), "("))
			}
		}
		sort.Strings(uniq)
		issues = append(issues, fmt.Sprintf("p5.js: uses DOM functions (%s)",
			strings.Join(uniq, ", ")))
	}

	switch {
	case strings.Contains(content, "document.querySelector") && strings.Contains(content, "'main'"):
		score += 1
	case strings.Contains(content, `canvas.parent("main")`) || strings.Contains(content, "canvas.parent('main')"):
		issues = append(issues, "p5.js: uses string-based canvas.parent('main') instead of querySelector")
	default:
		issues = append(issues, "p5.js: missing canvas.parent(document.querySelector('main'))")
	}

	return score, issues
}
