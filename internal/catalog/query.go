// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for catalog queries (C3).
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against titles,
	// eligibility criteria, conditions, and keywords (C3.1).
	Query string

	// Phase filters by exact phase value (C3.2).
	Phase string

	// Status filters by exact overall status (C3.2).
	Status string

	// Sponsor filters by lead sponsor substring (C3.3).
	Sponsor string

	// Condition filters by exact condition value (C3.4).
	Condition string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search text or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Phase == "" && q.Status == "" &&
		q.Sponsor == "" && q.Condition == ""
}

// QueryResult is the summary view of one catalog row.
type QueryResult struct {
	NCTID         string   `json:"nct_id" yaml:"nct_id"`
	XMLPath       string   `json:"xml_path" yaml:"xml_path"`
	BriefTitle    string   `json:"brief_title" yaml:"brief_title"`
	Phase         string   `json:"phase" yaml:"phase"`
	OverallStatus string   `json:"overall_status" yaml:"overall_status"`
	LeadSponsor   string   `json:"lead_sponsor" yaml:"lead_sponsor"`
	Conditions    []string `json:"conditions" yaml:"conditions"`
}

// querySQL assembles the SELECT for the given column list, filters, and
// limit. Full-text queries rank by FTS relevance; structured-only queries
// sort by nct_id, xml_path (C3.5).
func querySQL(columns string, opts QueryOptions, limit int) (string, []any) {
	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		fmt.Fprintf(&qb,
			`SELECT %s
			FROM trials_fts
			JOIN trials t ON t.rowid = trials_fts.rowid
			WHERE trials_fts MATCH ?`, columns)
		args = append(args, opts.Query)
	} else {
		fmt.Fprintf(&qb, `SELECT %s FROM trials t WHERE 1=1`, columns)
	}

	if opts.Phase != "" {
		qb.WriteString(` AND t.phase = ?`)
		args = append(args, opts.Phase)
	}
	if opts.Status != "" {
		qb.WriteString(` AND t.overall_status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Sponsor != "" {
		qb.WriteString(` AND t.lead_sponsor LIKE ?`)
		args = append(args, "%"+opts.Sponsor+"%")
	}
	if opts.Condition != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(t.conditions) WHERE value = ?)`)
		args = append(args, opts.Condition)
	}

	if useFTS {
		qb.WriteString(` ORDER BY trials_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY t.nct_id, t.xml_path`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, limit)

	return qb.String(), args
}

// Query searches the catalog with optional full-text search and structured
// filters, AND-combined (C3).
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	query, args := querySQL(
		`t.nct_id, t.xml_path, t.brief_title, t.phase, t.overall_status, t.lead_sponsor, t.conditions`,
		opts, maxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr             QueryResult
			nctID          sql.NullString
			briefTitle     sql.NullString
			phase          sql.NullString
			status         sql.NullString
			sponsor        sql.NullString
			conditionsJSON sql.NullString
		)

		if err := rows.Scan(&nctID, &qr.XMLPath, &briefTitle, &phase, &status, &sponsor, &conditionsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.NCTID = nctID.String
		qr.BriefTitle = briefTitle.String
		qr.Phase = phase.String
		qr.OverallStatus = status.String
		qr.LeadSponsor = sponsor.String
		if conditionsJSON.Valid {
			json.Unmarshal([]byte(conditionsJSON.String), &qr.Conditions)
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}
