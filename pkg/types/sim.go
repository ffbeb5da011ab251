// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the MicroSim pipeline:
// specifications extracted from chapter markdown, lifecycle records derived
// from the filesystem, quality reports, and per-stage configuration.
package types

// HeadingKind is the declared rendering intent of a sim heading.
type HeadingKind string

const (
	HeadingDiagram HeadingKind = "Diagram"
	HeadingDrawing HeadingKind = "Drawing"
)

// LifecycleStatus is one of the five lifecycle states a sim moves through.
// States are ordered; later states imply all earlier evidence is present.
type LifecycleStatus string

const (
	StatusSpecified   LifecycleStatus = "specified"
	StatusScaffolded  LifecycleStatus = "scaffolded"
	StatusImplemented LifecycleStatus = "implemented"
	StatusValidated   LifecycleStatus = "validated"
	StatusDeployed    LifecycleStatus = "deployed"
)

// AllStatuses lists the lifecycle states in order, earliest first.
var AllStatuses = []LifecycleStatus{
	StatusSpecified,
	StatusScaffolded,
	StatusImplemented,
	StatusValidated,
	StatusDeployed,
}

var statusRank = map[LifecycleStatus]int{
	StatusSpecified:   0,
	StatusScaffolded:  1,
	StatusImplemented: 2,
	StatusValidated:   3,
	StatusDeployed:    4,
}

// Rank returns the ordinal position of the status, or -1 for unknown values.
func (s LifecycleStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is the same state as other or a later one.
func (s LifecycleStatus) AtLeast(other LifecycleStatus) bool {
	return s.Rank() >= other.Rank()
}

// TaxonomyLevels lists the cognitive-skill ranks, lowest first.
var TaxonomyLevels = []string{
	"Remember", "Understand", "Apply", "Analyze", "Evaluate", "Create",
}

// SimSpec is one sim specification extracted from a chapter heading and its
// detail block. Specs are rebuilt from scratch on every scan.
type SimSpec struct {
	// SimID is the slug identifier, unique within a run. Derived from the
	// title when no explicit directory-name or sim-id field is declared.
	SimID string `json:"sim_id" yaml:"sim_id"`

	// Title is the human-readable label from the heading.
	Title string `json:"title" yaml:"title"`

	// HeadingKind is Diagram or Drawing.
	HeadingKind HeadingKind `json:"heading_kind" yaml:"heading_kind"`

	// Chapter is the owning chapter's directory name.
	Chapter string `json:"chapter" yaml:"chapter"`

	// Summary is the text of the detail block's summary element, if any.
	Summary string `json:"summary" yaml:"summary"`

	// ElementType is the declared element type ("Type:" field), if any.
	ElementType string `json:"element_type,omitempty" yaml:"element_type,omitempty"`

	// TaxonomyLevel is one of TaxonomyLevels, or empty if undetermined.
	TaxonomyLevel string `json:"taxonomy_level" yaml:"taxonomy_level"`

	// Library is the rendering library name, or empty if unknown.
	Library string `json:"library" yaml:"library"`

	// EmbedSrc is the src path of an existing embed iframe, or empty.
	EmbedSrc string `json:"embed_src" yaml:"embed_src"`

	// EmbedHeight is the declared height of the embed iframe, or empty.
	EmbedHeight string `json:"embed_height" yaml:"embed_height"`

	// RawDetail is the verbatim detail block including its tags, kept for
	// downstream regeneration (TODO reports).
	RawDetail string `json:"raw_detail_text" yaml:"raw_detail_text"`

	// DeclaredStatus is an explicit status string found in the detail text.
	// The filesystem-derived status is authoritative; this field is kept so
	// disagreements can be surfaced.
	DeclaredStatus string `json:"declared_status,omitempty" yaml:"declared_status,omitempty"`

	// Diagnostics records non-fatal extraction problems, such as an
	// unterminated detail block or a declared/derived status conflict.
	Diagnostics []string `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// HasEmbed reports whether an embed iframe was found for this spec.
func (s SimSpec) HasEmbed() bool {
	return s.EmbedSrc != ""
}

// LifecycleRecord merges a SimSpec with filesystem observation for one
// sim_id. Records are derived, never stored; the only durable artifact they
// read is the quality_score persisted in a sim's index.md frontmatter.
type LifecycleRecord struct {
	SimID         string          `json:"sim_id" yaml:"sim_id"`
	Title         string          `json:"title" yaml:"title"`
	Chapter       string          `json:"chapter" yaml:"chapter"`
	TaxonomyLevel string          `json:"taxonomy_level" yaml:"taxonomy_level"`
	Library       string          `json:"library" yaml:"library"`
	Status        LifecycleStatus `json:"status" yaml:"status"`
	HasEmbed      bool            `json:"has_embed" yaml:"has_embed"`

	// QualityScore is the persisted score, or nil when none is recorded.
	QualityScore *int `json:"quality_score" yaml:"quality_score"`
}
