// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted trial records in SQLite and builds a
// full-text retrieval index over them. A load replaces the catalog contents
// wholesale; records are never de-duplicated or merged.
// Implements: docs/ARCHITECTURE § Catalog (C1-C5).
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trialstream/pkg/types"
)

const dbFile = "trials.db"

// maxLineBytes caps the size of one NDJSON line during a load. Eligibility
// textblocks run long but nowhere near this.
const maxLineBytes = 10 * 1024 * 1024

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at catalogDir/trials.db,
// creating the directory and the schema as needed (C1).
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS trials (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			nct_id TEXT,
			xml_path TEXT NOT NULL,
			brief_title TEXT,
			official_title TEXT,
			overall_status TEXT,
			phase TEXT,
			study_type TEXT,
			lead_sponsor TEXT,
			enrollment TEXT,
			start_date TEXT,
			completion_date TEXT,
			eligibility_criteria TEXT,
			conditions TEXT,
			keywords TEXT,
			record TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_nct_id ON trials(nct_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_phase ON trials(phase)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_status ON trials(overall_status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='trials_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE trials_fts USING fts5(
				brief_title, official_title, eligibility_criteria, conditions, keywords,
				content=trials, content_rowid=rowid)`,
			`CREATE TRIGGER trials_ai AFTER INSERT ON trials BEGIN
				INSERT INTO trials_fts(rowid, brief_title, official_title, eligibility_criteria, conditions, keywords)
				VALUES (new.rowid, new.brief_title, new.official_title, new.eligibility_criteria, new.conditions, new.keywords);
			END`,
			`CREATE TRIGGER trials_ad AFTER DELETE ON trials BEGIN
				INSERT INTO trials_fts(trials_fts, rowid, brief_title, official_title, eligibility_criteria, conditions, keywords)
				VALUES('delete', old.rowid, old.brief_title, old.official_title, old.eligibility_criteria, old.conditions, old.keywords);
			END`,
			`CREATE TRIGGER trials_au AFTER UPDATE ON trials BEGIN
				INSERT INTO trials_fts(trials_fts, rowid, brief_title, official_title, eligibility_criteria, conditions, keywords)
				VALUES('delete', old.rowid, old.brief_title, old.official_title, old.eligibility_criteria, old.conditions, old.keywords);
				INSERT INTO trials_fts(rowid, brief_title, official_title, eligibility_criteria, conditions, keywords)
				VALUES (new.rowid, new.brief_title, new.official_title, new.eligibility_criteria, new.conditions, new.keywords);
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

// LoadSummary holds counts from a catalog load (C2.3).
type LoadSummary struct {
	Loaded int
	Failed int
}

// Total returns the number of non-blank input lines processed.
func (s LoadSummary) Total() int {
	return s.Loaded + s.Failed
}

// HasFailures reports whether any lines failed to load.
func (s LoadSummary) HasFailures() bool {
	return s.Failed > 0
}

// Load replaces the catalog contents with the records from an NDJSON file
// (C2). The whole load runs in one transaction: existing rows are deleted,
// then every line is inserted. A line that does not decode is reported to w
// and counted, and the load continues (C2.2). Blank lines are ignored.
func (s *Store) Load(ctx context.Context, inputPath string, w io.Writer) (LoadSummary, error) {
	var summary LoadSummary

	f, err := os.Open(inputPath)
	if err != nil {
		return summary, fmt.Errorf("opening input %s: %w", inputPath, err)
	}
	defer f.Close()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Full reload: the previous catalog contents are dropped (C2.1).
	if _, err := tx.ExecContext(ctx, `DELETE FROM trials`); err != nil {
		return summary, fmt.Errorf("clearing catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (nct_id, xml_path, brief_title, official_title, overall_status,
			phase, study_type, lead_sponsor, enrollment, start_date, completion_date,
			eligibility_criteria, conditions, keywords, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec types.TrialRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			fmt.Fprintf(w, "failed  line %d: %v\n", lineNo, err)
			summary.Failed++
			continue
		}

		conditionsJSON, _ := json.Marshal(rec.Conditions)
		keywordsJSON, _ := json.Marshal(rec.Keywords)

		_, err := stmt.ExecContext(ctx,
			rec.NCTID, rec.XMLPath, rec.BriefTitle, rec.OfficialTitle, rec.OverallStatus,
			rec.Phase, rec.StudyType, rec.LeadSponsor, rec.Enrollment, rec.StartDate,
			rec.CompletionDate, rec.EligibilityCriteria,
			string(conditionsJSON), string(keywordsJSON), string(line),
		)
		if err != nil {
			return summary, fmt.Errorf("inserting line %d: %w", lineNo, err)
		}
		summary.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing load: %w", err)
	}

	fmt.Fprintf(w, "\nloaded: %d, failed: %d\n", summary.Loaded, summary.Failed)
	return summary, nil
}
