package types

// SimMetadata is the fixed schema of a sim's metadata.json descriptor.
type SimMetadata struct {
	Title       string `json:"title" yaml:"title"`
	Creator     string `json:"creator" yaml:"creator"`
	Subject     string `json:"subject" yaml:"subject"`
	Description string `json:"description" yaml:"description"`
	Date        string `json:"date" yaml:"date"`

	Educational EducationalMetadata `json:"educational" yaml:"educational"`
	Technical   TechnicalMetadata   `json:"technical" yaml:"technical"`
	Pedagogical PedagogicalMetadata `json:"pedagogical" yaml:"pedagogical"`

	Chapter string `json:"chapter" yaml:"chapter"`
}

// EducationalMetadata describes the learning context of a sim.
type EducationalMetadata struct {
	GradeLevel         []string `json:"gradeLevel" yaml:"gradeLevel"`
	SubjectArea        string   `json:"subjectArea" yaml:"subjectArea"`
	Topic              string   `json:"topic" yaml:"topic"`
	LearningObjectives []string `json:"learningObjectives" yaml:"learningObjectives"`
	BloomsTaxonomy     string   `json:"bloomsTaxonomy" yaml:"bloomsTaxonomy"`
	Duration           string   `json:"duration" yaml:"duration"`
	Prerequisites      []string `json:"prerequisites" yaml:"prerequisites"`
	Standards          []string `json:"standards" yaml:"standards"`
}

// TechnicalMetadata describes the rendering implementation of a sim.
type TechnicalMetadata struct {
	Framework        string            `json:"framework" yaml:"framework"`
	Version          string            `json:"version" yaml:"version"`
	CanvasDimensions CanvasDimensions  `json:"canvasDimensions" yaml:"canvasDimensions"`
	Responsive       bool              `json:"responsive" yaml:"responsive"`
	Dependencies     []string          `json:"dependencies" yaml:"dependencies"`
	Accessibility    AccessibilityInfo `json:"accessibility" yaml:"accessibility"`
}

// CanvasDimensions holds the drawing surface size. Width is a string because
// responsive sims declare "responsive" rather than a pixel count.
type CanvasDimensions struct {
	Width  string `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// AccessibilityInfo records accessibility affordances of a sim.
type AccessibilityInfo struct {
	HasAltText         bool `json:"hasAltText" yaml:"hasAltText"`
	KeyboardNavigable  bool `json:"keyboardNavigable" yaml:"keyboardNavigable"`
}

// PedagogicalMetadata describes how the sim is meant to be taught with.
type PedagogicalMetadata struct {
	TeachingStrategy         string   `json:"teachingStrategy" yaml:"teachingStrategy"`
	KeyQuestions             []string `json:"keyQuestions" yaml:"keyQuestions"`
	CommonMisconceptions     []string `json:"commonMisconceptions" yaml:"commonMisconceptions"`
	AssessmentOpportunities  []string `json:"assessmentOpportunities" yaml:"assessmentOpportunities"`
}

// RequiredMetadataFields are the top-level fields the quality rubric expects
// a metadata.json descriptor to populate.
var RequiredMetadataFields = []string{
	"title", "description", "creator", "date", "subject",
}
