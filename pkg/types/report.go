package types

// QualityReport is the result of scoring one on-disk sim against the
// 100-point rubric. Reports are computed on demand and never persisted as
// their own entity.
type QualityReport struct {
	SimID string `json:"sim_id" yaml:"sim_id"`

	// Score is the sum of all category scores, 0-100.
	Score int `json:"score" yaml:"score"`

	// Categories maps rubric category name to points earned.
	Categories map[string]int `json:"categories" yaml:"categories"`

	// Issues lists human-readable remediation items in category order.
	Issues []string `json:"issues" yaml:"issues"`
}

// Grade returns a letter grade for the score: A >= 85, B >= 70, C >= 50,
// D otherwise.
func (r QualityReport) Grade() string {
	switch {
	case r.Score >= 85:
		return "A"
	case r.Score >= 70:
		return "B"
	case r.Score >= 50:
		return "C"
	default:
		return "D"
	}
}
