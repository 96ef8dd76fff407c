// Package postgres persists finished report runs so the dashboard can
// show history across analyses.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adscope/meta-ads-monitor/internal/report"
)

// ErrNotFound is returned when a client has no stored runs.
var ErrNotFound = errors.New("report not found")

// RunSummary is one row of a client's run history.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	Client      string    `json:"client"`
	GeneratedAt time.Time `json:"generated_at"`
	MedianCPA   float64   `json:"median_cpa"`
	TotalSpend  float64   `json:"total_spend"`
	TotalScore  float64   `json:"total_score"`
	TotalAds    int       `json:"total_ads"`
}

// ReportRepo stores report runs in PostgreSQL. The full report document
// lives in a JSONB column; the queryable aggregates are broken out.
type ReportRepo struct{ db *sql.DB }

// NewReportRepo creates a Postgres-backed report repository.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// Save inserts one finished run.
func (r *ReportRepo) Save(ctx context.Context, rep *report.Report) error {
	doc, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ads_report_runs
			(run_id, client, generated_at, median_cpa, total_spend, total_score, total_ads, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rep.RunID, rep.Client, rep.GeneratedAt, rep.MedianCPA,
		rep.Summary.TotalSpend, rep.Summary.TotalScore, rep.Summary.TotalAds, doc)
	if err != nil {
		return fmt.Errorf("save report run: %w", err)
	}
	return nil
}

// Latest returns the most recent report for a client.
func (r *ReportRepo) Latest(ctx context.Context, client string) (*report.Report, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT report FROM ads_report_runs
		WHERE client = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`, client).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(doc, &rep); err != nil {
		return nil, fmt.Errorf("decoding stored report: %w", err)
	}
	return &rep, nil
}

// History lists a client's runs, newest first.
func (r *ReportRepo) History(ctx context.Context, client string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, client, generated_at, median_cpa, total_spend, total_score, total_ads
		FROM ads_report_runs
		WHERE client = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`, client, limit)
	if err != nil {
		return nil, fmt.Errorf("list report runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.Client, &s.GeneratedAt,
			&s.MedianCPA, &s.TotalSpend, &s.TotalScore, &s.TotalAds); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Clients returns every client with at least one stored run.
func (r *ReportRepo) Clients(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT client FROM ads_report_runs ORDER BY client
	`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
