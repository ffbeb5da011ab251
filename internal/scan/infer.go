// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// Slug converts a title to its kebab-case identifier: lowercase, punctuation
// stripped, whitespace runs collapsed to single hyphens. Slugifying an
// already-slugified string returns it unchanged.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var (
	slugStripRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
	slugDashRe  = regexp.MustCompile(`-+`)
)

// Structured fields recognized inside a detail block.
var (
	fieldDirNameRe = regexp.MustCompile(`(?i)Directory name:\s*(\S+)`)
	fieldSimIDRe   = regexp.MustCompile(`(?i)\*\*sim-id:\*\*\s*([^<\n]+)`)
	fieldLibraryRe = regexp.MustCompile(`(?i)\*\*Library:\*\*\s*([^<\n]+)`)
	fieldStatusRe  = regexp.MustCompile(`(?i)\*\*Status:\*\*\s*([^<\n]+)`)
	fieldTypeRe    = regexp.MustCompile(`(?im)^Type:\s*(.+)$`)
	fieldBloomRe   = regexp.MustCompile(`(?i)Bloom[^\n]*?Level:\*?\*?\s*([^<\n]+)`)

	implementationLineRe = regexp.MustCompile(`(?i)Implementation:?\s*(.+)`)
)

// fieldValue applies re to text and returns the trimmed first capture group.
func fieldValue(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), "*")
}

// bloomValue cuts a matched Bloom field at the first dash so trailing
// rationale text ("Apply - students manipulate...") is dropped.
func bloomValue(text string) string {
	v := fieldValue(fieldBloomRe, text)
	for _, sep := range []string{" -", " –", " —"} {
		if i := strings.Index(v, sep); i >= 0 {
			v = v[:i]
		}
	}
	return strings.TrimSpace(v)
}

// keywordLabel is one (pattern, label) pair in an ordered classification
// table. Collisions resolve by table order, not specificity.
type keywordLabel struct {
	Keyword string
	Label   string
}

// libraryTable maps lowercase keywords to canonical rendering-library names.
// The enumerated vocabulary is fixed; first match wins.
var libraryTable = []keywordLabel{
	{"p5.js", "p5.js"},
	{"vis-network", "vis-network"},
	{"vis-timeline", "vis-timeline"},
	{"chart.js", "Chart.js"},
	{"chartjs", "Chart.js"},
	{"mermaid", "Mermaid"},
	{"plotly", "Plotly"},
	{"leaflet", "Leaflet"},
	{"p5", "p5.js"},
}

// scanLibraryKeywords returns the canonical library for the first table
// keyword found in text, or "".
func scanLibraryKeywords(text string) string {
	lower := strings.ToLower(text)
	for _, kl := range libraryTable {
		if strings.Contains(lower, kl.Keyword) {
			return kl.Label
		}
	}
	return ""
}

// InferLibrary resolves the rendering library for a detail block:
// explicit field, then the Implementation line, then a whole-block keyword
// scan, then the MicroSim default, then empty.
func InferLibrary(detailText string) string {
	if lib := fieldValue(fieldLibraryRe, detailText); lib != "" {
		return lib
	}
	if m := implementationLineRe.FindStringSubmatch(detailText); m != nil {
		if lib := scanLibraryKeywords(m[1]); lib != "" {
			return lib
		}
	}
	if lib := scanLibraryKeywords(detailText); lib != "" {
		return lib
	}
	if strings.Contains(strings.ToLower(detailText), "microsim") {
		return "p5.js"
	}
	return ""
}

// TaxonomyKeywords is the ordered skill-verb table for cognitive-level
// inference, lowest rank first. The first keyword found in the text wins;
// rank collisions resolve by table order.
var TaxonomyKeywords = []keywordLabel{
	{"identify", "Remember"},
	{"recall", "Remember"},
	{"list", "Remember"},
	{"name", "Remember"},
	{"remember", "Remember"},
	{"understand", "Understand"},
	{"explain", "Understand"},
	{"describe", "Understand"},
	{"classify", "Understand"},
	{"apply", "Apply"},
	{"calculate", "Apply"},
	{"solve", "Apply"},
	{"demonstrate", "Apply"},
	{"analyze", "Analyze"},
	{"compare", "Analyze"},
	{"evaluate", "Evaluate"},
	{"judge", "Evaluate"},
	{"create", "Create"},
	{"design", "Create"},
}

// InferTaxonomy resolves the cognitive-skill level: explicit Bloom field
// first, then the keyword table over the whole detail block, then empty.
func InferTaxonomy(detailText string) string {
	if v := bloomValue(detailText); v != "" {
		return v
	}
	lower := strings.ToLower(detailText)
	for _, kl := range TaxonomyKeywords {
		if strings.Contains(lower, kl.Keyword) {
			return kl.Label
		}
	}
	return ""
}

// TaxonomyShort returns a label like "Understand (L2)" for report output,
// or the input unchanged when the level is not one of the six ranks.
func TaxonomyShort(level string) string {
	if level == "" {
		return ""
	}
	codes := map[string]string{
		"remember": "L1", "understand": "L2", "apply": "L3",
		"analyze": "L4", "evaluate": "L5", "create": "L6",
	}
	first := strings.ToLower(strings.Fields(level)[0])
	if code, ok := codes[first]; ok {
		return fmt.Sprintf("%s (%s)", level, code)
	}
	return level
}

// InferSimID resolves the identifier for a spec: explicit directory-name
// field, then explicit sim-id field, then the id of an existing embed,
// then the slug of the title.
func InferSimID(title, detailText, embedID string) string {
	if m := fieldDirNameRe.FindStringSubmatch(detailText); m != nil {
		return strings.TrimSpace(m[1])
	}
	if id := fieldValue(fieldSimIDRe, detailText); id != "" {
		return strings.Fields(id)[0]
	}
	if embedID != "" {
		return embedID
	}
	return Slug(title)
}

// cdnTable maps script src patterns in a renderer-hosting document to
// canonical library names.
var cdnTable = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`p5(?:\.min)?\.js`), "p5.js"},
	{regexp.MustCompile(`vis-network`), "vis-network"},
	{regexp.MustCompile(`vis-timeline`), "vis-timeline"},
	{regexp.MustCompile(`chart(?:\.min)?\.js`), "Chart.js"},
	{regexp.MustCompile(`mermaid`), "Mermaid"},
	{regexp.MustCompile(`plotly`), "Plotly"},
	{regexp.MustCompile(`leaflet`), "Leaflet"},
}

// DetectLibrary identifies the rendering library used by a main.html file
// from its CDN references. Returns "unknown" when no pattern matches.
func DetectLibrary(htmlContent string) string {
	lower := strings.ToLower(htmlContent)
	for _, entry := range cdnTable {
		if entry.re.MatchString(lower) {
			return entry.name
		}
	}
	return "unknown"
}
