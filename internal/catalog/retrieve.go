// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/microsim-engine/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title, summary, and
	// detail text.
	Query string

	// Chapter filters by chapter directory name.
	Chapter string

	// Library filters by canonical rendering library.
	Library string

	// Status filters by lifecycle status.
	Status string

	// Taxonomy filters by cognitive-skill level.
	Taxonomy string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Chapter == "" && q.Library == "" &&
		q.Status == "" && q.Taxonomy == ""
}

// Entry is a cataloged spec joined with its lifecycle record.
type Entry struct {
	SimID         string `json:"sim_id" yaml:"sim_id"`
	Title         string `json:"title" yaml:"title"`
	Chapter       string `json:"chapter" yaml:"chapter"`
	Summary       string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Library       string `json:"library,omitempty" yaml:"library,omitempty"`
	TaxonomyLevel string `json:"taxonomy_level,omitempty" yaml:"taxonomy_level,omitempty"`
	Status        string `json:"status" yaml:"status"`
	HasEmbed      bool   `json:"has_embed" yaml:"has_embed"`
	QualityScore  *int   `json:"quality_score,omitempty" yaml:"quality_score,omitempty"`
}

// Retrieve queries the catalog with optional full-text search and
// structured filters. Full-text queries rank by relevance; structured
// queries sort by chapter then sim_id.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT sp.sim_id, sp.title, sp.chapter, sp.summary, sp.library,
				sp.taxonomy_level, r.status, r.has_embed, r.quality_score
			FROM specs_fts
			JOIN specs sp ON sp.rowid = specs_fts.rowid
			LEFT JOIN records r ON r.sim_id = sp.sim_id
			WHERE specs_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT sp.sim_id, sp.title, sp.chapter, sp.summary, sp.library,
				sp.taxonomy_level, r.status, r.has_embed, r.quality_score
			FROM specs sp
			LEFT JOIN records r ON r.sim_id = sp.sim_id
			WHERE 1=1`)
	}

	if opts.Chapter != "" {
		qb.WriteString(` AND sp.chapter = ?`)
		args = append(args, opts.Chapter)
	}
	if opts.Library != "" {
		qb.WriteString(` AND sp.library = ?`)
		args = append(args, opts.Library)
	}
	if opts.Taxonomy != "" {
		qb.WriteString(` AND sp.taxonomy_level = ?`)
		args = append(args, opts.Taxonomy)
	}
	if opts.Status != "" {
		qb.WriteString(` AND r.status = ?`)
		args = append(args, opts.Status)
	}

	if useFTS {
		qb.WriteString(` ORDER BY specs_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY sp.chapter, sp.sim_id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var (
			e        Entry
			status   sql.NullString
			hasEmbed sql.NullInt64
			score    sql.NullInt64
		)
		if err := rows.Scan(
			&e.SimID, &e.Title, &e.Chapter, &e.Summary, &e.Library,
			&e.TaxonomyLevel, &status, &hasEmbed, &score,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		e.Status = string(types.StatusSpecified)
		if status.Valid {
			e.Status = status.String
		}
		e.HasEmbed = hasEmbed.Valid && hasEmbed.Int64 != 0
		if score.Valid {
			n := int(score.Int64)
			e.QualityScore = &n
		}

		results = append(results, e)
	}

	return results, rows.Err()
}
