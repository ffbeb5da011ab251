// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan extracts structured sim specifications from chapter markdown.
// A lightweight block parser turns a chapter document into a sequence of
// heading, detail-block, and embed nodes; the field inferencer then resolves
// each declared sim into a SimSpec using ordered fallback rules.
package scan

import (
	"regexp"
	"strings"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

// BlockKind identifies a block-level node in a chapter document.
type BlockKind int

const (
	// BlockHeading is a markdown heading of any level.
	BlockHeading BlockKind = iota
	// BlockDetails is a collapsible <details markdown="1"> region.
	BlockDetails
	// BlockIframe is a sim embed tag outside any details block.
	BlockIframe
)

// Block is one block-level node. Fields are populated according to Kind.
type Block struct {
	Kind BlockKind
	Line int // 1-based line number where the block starts

	// Heading fields.
	Level   int
	SimKind types.HeadingKind // set when the heading declares a sim
	Title   string            // heading text, or sim title for sim headings

	// Details fields.
	Text       string // verbatim block including tags
	Summary    string
	Terminated bool

	// Iframe fields.
	Src    string
	SimID  string
	Height string
}

var (
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	simHeadingRe = regexp.MustCompile(`^(Diagram|Drawing):\s*(.+)$`)

	detailsOpenRe  = regexp.MustCompile(`(?i)<details\s+markdown=["']1["']\s*>`)
	detailsCloseRe = regexp.MustCompile(`(?i)</details>`)
	summaryRe      = regexp.MustCompile(`(?is)<summary>(.*?)</summary>`)

	iframeTagRe  = regexp.MustCompile(`(?is)<iframe\s[^>]*>`)
	srcAttrRe    = regexp.MustCompile(`(?i)src=["']([^"']+)["']`)
	heightAttrRe = regexp.MustCompile(`(?i)height=["']([^"']*)["']`)
	simPathRe    = regexp.MustCompile(`(?:^|/)sims/([^/"']+)/main\.html$`)
)

// ParseBlocks scans a chapter document into block-level nodes. Detail blocks
// are matched by depth counting so nested pairs close correctly; a block
// left open at end of input is returned with Terminated false.
func ParseBlocks(content string) []Block {
	lines := strings.Split(content, "\n")
	var blocks []Block

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := headingRe.FindStringSubmatch(line); m != nil {
			b := Block{Kind: BlockHeading, Line: i + 1, Level: len(m[1]), Title: m[2]}
			if sm := simHeadingRe.FindStringSubmatch(m[2]); sm != nil {
				b.SimKind = types.HeadingKind(sm[1])
				b.Title = strings.TrimSpace(sm[2])
			}
			blocks = append(blocks, b)
			continue
		}

		if detailsOpenRe.MatchString(line) {
			block, next := collectDetails(lines, i)
			blocks = append(blocks, block)
			i = next - 1
			continue
		}

		if src, id, height, ok := ParseIframe(line); ok {
			blocks = append(blocks, Block{
				Kind: BlockIframe, Line: i + 1,
				Src: src, SimID: id, Height: height,
			})
		}
	}

	return blocks
}

// collectDetails gathers lines from start until the matching </details>,
// tracking nesting depth. Returns the block and the index of the line after
// the close tag (or len(lines) when the block is unterminated).
func collectDetails(lines []string, start int) (Block, int) {
	depth := 0
	var collected []string

	for i := start; i < len(lines); i++ {
		line := lines[i]
		collected = append(collected, line)
		depth += len(detailsOpenRe.FindAllString(line, -1))
		depth -= len(detailsCloseRe.FindAllString(line, -1))
		if depth <= 0 {
			return newDetailsBlock(collected, start, true), i + 1
		}
	}
	return newDetailsBlock(collected, start, false), len(lines)
}

func newDetailsBlock(collected []string, start int, terminated bool) Block {
	text := strings.Join(collected, "\n")
	b := Block{
		Kind: BlockDetails, Line: start + 1,
		Text:       text,
		Terminated: terminated,
	}
	if m := summaryRe.FindStringSubmatch(text); m != nil {
		b.Summary = strings.TrimSpace(m[1])
	}
	return b
}

// ParseIframe extracts (src, sim_id, height) from a line containing a sim
// embed tag. Attribute order does not matter. Returns ok false when the
// line has no iframe referencing a sims/<id>/main.html path.
func ParseIframe(text string) (src, simID, height string, ok bool) {
	for _, tag := range iframeTagRe.FindAllString(text, -1) {
		sm := srcAttrRe.FindStringSubmatch(tag)
		if sm == nil {
			continue
		}
		pm := simPathRe.FindStringSubmatch(sm[1])
		if pm == nil {
			continue
		}
		src = sm[1]
		simID = pm[1]
		if hm := heightAttrRe.FindStringSubmatch(tag); hm != nil {
			height = hm[1]
		}
		return src, simID, height, true
	}
	return "", "", "", false
}
