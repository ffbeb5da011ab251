// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lifecycle derives where each sim stands in the implementation
// lifecycle by reconciling extracted specifications with on-disk evidence.
package lifecycle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/microsim-engine/internal/frontmatter"
	"github.com/pdiddy/microsim-engine/internal/scan"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

const (
	// EntryFile is the document that marks a sim directory as scaffolded.
	EntryFile = "main.html"

	// DescriptorFile carries the persisted quality_score in its frontmatter.
	DescriptorFile = "index.md"

	// DataFile marks a data-driven sim as implemented when no script
	// crosses the substance threshold.
	DataFile = "data.json"

	// ScriptLineThreshold separates boilerplate from substantive scripts.
	ScriptLineThreshold = 50

	// ValidatedScore is the minimum persisted quality score for the
	// validated state.
	ValidatedScore = 70
)

// Observation is the filesystem evidence collected for one sim directory.
type Observation struct {
	DirExists         bool
	HasEntry          bool
	SubstantiveScript bool
	HasDataFile       bool
	QualityScore      *int
	DetectedLibrary   string
}

// Observe inspects simDir and gathers the evidence the classifier needs.
// A missing directory is not an error; unreadable files inside an existing
// directory are.
func Observe(simDir string) (Observation, error) {
	var obs Observation

	info, err := os.Stat(simDir)
	if err != nil {
		if os.IsNotExist(err) {
			return obs, nil
		}
		return obs, fmt.Errorf("stat %s: %w", simDir, err)
	}
	if !info.IsDir() {
		return obs, nil
	}
	obs.DirExists = true

	entryPath := filepath.Join(simDir, EntryFile)
	if html, err := os.ReadFile(entryPath); err == nil {
		obs.HasEntry = true
		obs.DetectedLibrary = scan.DetectLibrary(string(html))
	}

	entries, err := os.ReadDir(simDir)
	if err != nil {
		return obs, fmt.Errorf("reading %s: %w", simDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Name() == DataFile {
			obs.HasDataFile = true
		}
		if strings.HasSuffix(e.Name(), ".js") && !obs.SubstantiveScript {
			data, err := os.ReadFile(filepath.Join(simDir, e.Name()))
			if err != nil {
				continue
			}
			if len(strings.Split(string(data), "\n")) > ScriptLineThreshold {
				obs.SubstantiveScript = true
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(simDir, DescriptorFile)); err == nil {
		if fields, _, err := frontmatter.Decode(data); err == nil {
			if score, ok := frontmatter.Int(fields, "quality_score"); ok {
				obs.QualityScore = &score
			}
		}
	}

	return obs, nil
}

// Derive assigns a lifecycle status from evidence. Rules are evaluated in
// order and only ever advance the status, so added evidence can never
// demote a record.
func Derive(obs Observation, hasEmbed bool) types.LifecycleStatus {
	status := types.StatusSpecified

	if !obs.DirExists || !obs.HasEntry {
		return status
	}
	status = types.StatusScaffolded

	if obs.SubstantiveScript || obs.HasDataFile {
		status = types.StatusImplemented
	}

	if obs.QualityScore != nil && *obs.QualityScore >= ValidatedScore &&
		status.AtLeast(types.StatusImplemented) {
		status = types.StatusValidated
	}

	if status == types.StatusValidated && hasEmbed {
		status = types.StatusDeployed
	}

	return status
}

// BuildRecords merges chapter specs with filesystem state and appends
// orphaned implementations (directories with an entry file but no spec).
// Records are returned sorted by sim_id. Declared/derived status conflicts
// and per-sim observation failures are reported to w; neither aborts the
// run.
func BuildRecords(specs []types.SimSpec, simsDir string, w io.Writer) []types.LifecycleRecord {
	byID := map[string]types.LifecycleRecord{}

	for _, spec := range specs {
		obs, err := Observe(filepath.Join(simsDir, spec.SimID))
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", spec.SimID, err)
			continue
		}

		rec := types.LifecycleRecord{
			SimID:         spec.SimID,
			Title:         spec.Title,
			Chapter:       spec.Chapter,
			TaxonomyLevel: spec.TaxonomyLevel,
			Library:       spec.Library,
			Status:        Derive(obs, spec.HasEmbed()),
			HasEmbed:      spec.HasEmbed(),
			QualityScore:  obs.QualityScore,
		}
		if rec.Library == "" && obs.HasEntry {
			rec.Library = obs.DetectedLibrary
		}

		if declared := strings.ToLower(spec.DeclaredStatus); declared != "" &&
			declared != string(rec.Status) {
			fmt.Fprintf(w, "conflict %s: status declared %q but filesystem evidence says %q\n",
				spec.SimID, spec.DeclaredStatus, rec.Status)
		}

		byID[spec.SimID] = rec
	}

	appendOrphans(byID, simsDir, w)

	records := make([]types.LifecycleRecord, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SimID < records[j].SimID })
	return records
}

var titleCaser = cases.Title(language.English)

// appendOrphans adds records for sim directories that no spec mentions.
// Only directories with an entry file count; anything less is noise.
func appendOrphans(byID map[string]types.LifecycleRecord, simsDir string, w io.Writer) {
	entries, err := os.ReadDir(simsDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, exists := byID[name]; exists {
			continue
		}

		obs, err := Observe(filepath.Join(simsDir, name))
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", name, err)
			continue
		}
		if !obs.HasEntry {
			continue
		}

		byID[name] = types.LifecycleRecord{
			SimID:        name,
			Title:        titleCaser.String(strings.ReplaceAll(name, "-", " ")),
			Status:       Derive(obs, false),
			Library:      obs.DetectedLibrary,
			QualityScore: obs.QualityScore,
		}
	}
}

// WriteStatusFile writes records as an indented JSON array. The file is
// written in one shot after all records are computed.
func WriteStatusFile(records []types.LifecycleRecord, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling status records: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// CountByStatus tallies records per lifecycle state.
func CountByStatus(records []types.LifecycleRecord) map[types.LifecycleStatus]int {
	counts := map[types.LifecycleStatus]int{}
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}
