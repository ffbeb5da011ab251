package types

// ScanConfig holds settings for the specification extraction stage.
type ScanConfig struct {
	// ChaptersDir is the chapter corpus directory relative to the project
	// root (default "docs/chapters").
	ChaptersDir string `json:"chapters_dir" yaml:"chapters_dir"`

	// SimsDir is the sim directory root relative to the project root
	// (default "docs/sims").
	SimsDir string `json:"sims_dir" yaml:"sims_dir"`
}

// ScaffoldConfig holds settings for scaffold generation.
type ScaffoldConfig struct {
	// SimsDir is the sim directory root relative to the project root.
	SimsDir string `json:"sims_dir" yaml:"sims_dir"`

	// DefaultLibrary is used when a spec names no rendering library
	// (default "p5.js").
	DefaultLibrary string `json:"default_library" yaml:"default_library"`

	// Creator is the authorship placeholder written into metadata.json.
	Creator string `json:"creator" yaml:"creator"`

	// Subject is the audience/subject placeholder written into metadata.json.
	Subject string `json:"subject" yaml:"subject"`
}

// ValidateConfig holds settings for quality scoring.
type ValidateConfig struct {
	// SimsDir is the sim directory root relative to the project root.
	SimsDir string `json:"sims_dir" yaml:"sims_dir"`

	// MinScore filters report output to sims scoring at least this value.
	MinScore int `json:"min_score" yaml:"min_score"`
}

// NavConfig holds settings for the navigation synchronizer.
type NavConfig struct {
	// SimsDir is the sim directory root relative to the project root.
	SimsDir string `json:"sims_dir" yaml:"sims_dir"`

	// SectionName is the nav section rebuilt by the synchronizer
	// (default "MicroSims").
	SectionName string `json:"section_name" yaml:"section_name"`
}

// CatalogConfig holds settings for the SQLite sim catalog.
type CatalogConfig struct {
	// DBPath is the catalog database path relative to the project root
	// (default "docs/sims/catalog.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scan     ScanConfig     `json:"scan" yaml:"scan"`
	Scaffold ScaffoldConfig `json:"scaffold" yaml:"scaffold"`
	Validate ValidateConfig `json:"validate" yaml:"validate"`
	Nav      NavConfig      `json:"nav" yaml:"nav"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog"`
}

// DefaultPipelineConfig returns the configuration used when no config file
// or flags override a setting.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Scan: ScanConfig{
			ChaptersDir: "docs/chapters",
			SimsDir:     "docs/sims",
		},
		Scaffold: ScaffoldConfig{
			SimsDir:        "docs/sims",
			DefaultLibrary: "p5.js",
			Creator:        "TODO: Add creator",
			Subject:        "TODO: Add subject",
		},
		Validate: ValidateConfig{
			SimsDir: "docs/sims",
		},
		Nav: NavConfig{
			SimsDir:     "docs/sims",
			SectionName: "MicroSims",
		},
		Catalog: CatalogConfig{
			DBPath:     "docs/sims/catalog.db",
			MaxResults: 20,
		},
	}
}
