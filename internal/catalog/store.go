// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted sim specifications and lifecycle
// records in a SQLite database with a full-text retrieval index.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/microsim-engine/internal/lifecycle"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.DBPath, creating
// the schema and parent directories as needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS specs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sim_id TEXT NOT NULL UNIQUE,
			title TEXT,
			heading_kind TEXT,
			chapter TEXT NOT NULL,
			summary TEXT,
			detail TEXT,
			element_type TEXT,
			taxonomy_level TEXT,
			library TEXT,
			embed_src TEXT,
			embed_height TEXT,
			declared_status TEXT,
			diagnostics TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_specs_chapter ON specs(chapter)`,
		`CREATE INDEX IF NOT EXISTS idx_specs_library ON specs(library)`,
		`CREATE TABLE IF NOT EXISTS records (
			sim_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			has_embed INTEGER NOT NULL,
			quality_score INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS scan_status (
			chapter TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='specs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE specs_fts USING fts5(title, summary, detail, content=specs, content_rowid=rowid)`,
			`CREATE TRIGGER specs_ai AFTER INSERT ON specs BEGIN
				INSERT INTO specs_fts(rowid, title, summary, detail) VALUES (new.rowid, new.title, new.summary, new.detail);
			END`,
			`CREATE TRIGGER specs_ad AFTER DELETE ON specs BEGIN
				INSERT INTO specs_fts(specs_fts, rowid, title, summary, detail) VALUES('delete', old.rowid, old.title, old.summary, old.detail);
			END`,
			`CREATE TRIGGER specs_au AFTER UPDATE ON specs BEGIN
				INSERT INTO specs_fts(specs_fts, rowid, title, summary, detail) VALUES('delete', old.rowid, old.title, old.summary, old.detail);
				INSERT INTO specs_fts(rowid, title, summary, detail) VALUES (new.rowid, new.title, new.summary, new.detail);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RefreshSummary holds counts from a catalog refresh run.
type RefreshSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of chapters processed.
func (s RefreshSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Refresh scans chapter documents into the catalog. Chapters whose entry
// file has not changed since the last run are skipped; changed chapters
// have their specs replaced. Lifecycle records are recomputed for the
// whole catalog afterwards so quality-score changes are always picked up.
func (s *Store) Refresh(ctx context.Context, chaptersDir, simsDir string, w io.Writer) (RefreshSummary, error) {
	entries, err := os.ReadDir(chaptersDir)
	if err != nil {
		return RefreshSummary{}, fmt.Errorf("reading chapters directory %s: %w", chaptersDir, err)
	}

	var summary RefreshSummary

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		chapter := entry.Name()
		indexPath := filepath.Join(chaptersDir, chapter, scan.ChapterEntryFile)

		info, err := os.Stat(indexPath)
		if err != nil {
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM scan_status WHERE chapter = ?`, chapter,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", chapter)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(indexPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", chapter, err)
			summary.Failed++
			continue
		}

		specs := scan.ScanChapter(string(data), chapter)
		if err := s.ingestChapter(ctx, chapter, specs, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", chapter, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d specs)\n", chapter, len(specs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d specs)\n", chapter, len(specs))
			summary.Indexed++
		}
	}

	if err := s.refreshRecords(ctx, simsDir, w); err != nil {
		return summary, fmt.Errorf("refreshing lifecycle records: %w", err)
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestChapter(ctx context.Context, chapter string, specs []types.SimSpec, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM specs WHERE chapter = ?`, chapter); err != nil {
			return fmt.Errorf("deleting old specs: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO specs (sim_id, title, heading_kind, chapter, summary, detail,
			element_type, taxonomy_level, library, embed_src, embed_height, declared_status, diagnostics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, spec := range specs {
		diagJSON, _ := json.Marshal(spec.Diagnostics)
		_, err := stmt.ExecContext(ctx,
			spec.SimID, spec.Title, string(spec.HeadingKind), spec.Chapter,
			spec.Summary, spec.RawDetail,
			spec.ElementType, spec.TaxonomyLevel, spec.Library,
			spec.EmbedSrc, spec.EmbedHeight, spec.DeclaredStatus,
			string(diagJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting spec %s: %w", spec.SimID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_status (chapter, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(chapter) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		chapter, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating scan status: %w", err)
	}

	return tx.Commit()
}

// refreshRecords recomputes lifecycle records for every cataloged spec
// plus any orphaned sim directories.
func (s *Store) refreshRecords(ctx context.Context, simsDir string, w io.Writer) error {
	specs, err := s.allSpecs(ctx)
	if err != nil {
		return err
	}

	records := lifecycle.BuildRecords(specs, simsDir, w)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (sim_id, status, has_embed, quality_score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		hasEmbed := 0
		if rec.HasEmbed {
			hasEmbed = 1
		}
		var score any
		if rec.QualityScore != nil {
			score = *rec.QualityScore
		}
		if _, err := stmt.ExecContext(ctx, rec.SimID, string(rec.Status), hasEmbed, score); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.SimID, err)
		}
	}

	return tx.Commit()
}

// allSpecs loads every cataloged spec, ordered by sim_id.
func (s *Store) allSpecs(ctx context.Context) ([]types.SimSpec, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sim_id, title, heading_kind, chapter, summary, detail,
			element_type, taxonomy_level, library, embed_src, embed_height,
			declared_status, diagnostics
		 FROM specs ORDER BY sim_id`)
	if err != nil {
		return nil, fmt.Errorf("querying specs: %w", err)
	}
	defer rows.Close()

	var specs []types.SimSpec
	for rows.Next() {
		var (
			spec     types.SimSpec
			kind     string
			diagJSON sql.NullString
		)
		if err := rows.Scan(
			&spec.SimID, &spec.Title, &kind, &spec.Chapter, &spec.Summary,
			&spec.RawDetail, &spec.ElementType, &spec.TaxonomyLevel,
			&spec.Library, &spec.EmbedSrc, &spec.EmbedHeight,
			&spec.DeclaredStatus, &diagJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		spec.HeadingKind = types.HeadingKind(kind)
		if diagJSON.Valid {
			json.Unmarshal([]byte(diagJSON.String), &spec.Diagnostics)
		}
		specs = append(specs, spec)
	}

	return specs, rows.Err()
}
