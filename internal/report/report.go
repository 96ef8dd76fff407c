// Package report renders a finished analysis into its output formats:
// a JSON document for the dashboard, a plain-text report for operators
// and a PDF for clients.
package report

import (
	"fmt"
	"time"

	"github.com/adscope/meta-ads-monitor/internal/analysis"
	"github.com/adscope/meta-ads-monitor/internal/domain"
	"github.com/adscope/meta-ads-monitor/internal/objective"
	"github.com/adscope/meta-ads-monitor/internal/recommend"
)

// Report is the complete result of one client analysis run.
type Report struct {
	RunID       string    `json:"run_id"`
	Client      string    `json:"client"`
	GeneratedAt time.Time `json:"generated_at"`
	MedianCPA   float64   `json:"median_cpa"`

	Summary       analysis.Summary                              `json:"summary"`
	ActionPlan    recommend.Summary                             `json:"action_plan"`
	Candidates    []recommend.Candidate                         `json:"duplicate_candidates"`
	Actions       []recommend.Action                            `json:"actions"`
	NonCandidates []recommend.NonCandidate                      `json:"non_candidates,omitempty"`
	Rankings      analysis.Rankings                             `json:"rankings"`
	Anomalies     []analysis.Anomaly                            `json:"anomalies"`
	Historical    []analysis.PeriodSummary                      `json:"historical,omitempty"`
	ByObjective   map[domain.Objective]analysis.ObjectiveStats  `json:"by_objective"`
	Insights      map[domain.Objective][]objective.Insight      `json:"insights,omitempty"`
	ByManager     map[string]analysis.ManagerStats              `json:"by_manager,omitempty"`
	Ads           []domain.Ad                                   `json:"ads"`
}

// TextFilename returns the operator report path component for a client.
func TextFilename(client string) string {
	return fmt.Sprintf("%s-report.txt", client)
}

// JSONFilename returns the dashboard document path component.
func JSONFilename(client string) string {
	return fmt.Sprintf("%s-report.json", client)
}

// PDFFilename returns the dated client deliverable path component.
func PDFFilename(client string, at time.Time) string {
	return fmt.Sprintf("%s-report-%s.pdf", client, at.Format("2006-01-02"))
}
