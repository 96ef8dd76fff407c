// Package pipeline runs the full analysis for each client: load the
// raw exports, enrich, recommend, analyze, render the reports and fan
// the result out to the archive, the history store and the cache.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adscope/meta-ads-monitor/internal/analysis"
	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
	"github.com/adscope/meta-ads-monitor/internal/loader"
	"github.com/adscope/meta-ads-monitor/internal/metrics"
	"github.com/adscope/meta-ads-monitor/internal/objective"
	"github.com/adscope/meta-ads-monitor/internal/pkg/logger"
	"github.com/adscope/meta-ads-monitor/internal/recommend"
	"github.com/adscope/meta-ads-monitor/internal/report"
	"github.com/adscope/meta-ads-monitor/internal/storage"
)

// HistoryStore persists finished runs.
type HistoryStore interface {
	Save(ctx context.Context, rep *report.Report) error
}

// ReportCache keeps the latest report per client.
type ReportCache interface {
	Put(ctx context.Context, rep *report.Report) error
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	cfg       *config.Config
	loader    *loader.Loader
	metrics   *metrics.Engine
	recommend *recommend.Engine
	analyzer  *analysis.Analyzer
	text      *report.TextRenderer

	archiver storage.Archiver
	history  HistoryStore
	cache    ReportCache

	now   func() time.Time
	runID func() string
}

// New creates a pipeline from the run configuration. Archive, history
// and cache sinks are optional; attach them with the setters.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		loader:    loader.New(cfg),
		metrics:   metrics.NewEngine(cfg),
		recommend: recommend.NewEngine(cfg),
		analyzer:  analysis.NewAnalyzer(cfg),
		text:      report.NewTextRenderer(),
		now:       time.Now,
		runID:     func() string { return uuid.New().String() },
	}
}

// SetArchiver attaches a report archive.
func (p *Pipeline) SetArchiver(a storage.Archiver) { p.archiver = a }

// SetHistory attaches a run history store.
func (p *Pipeline) SetHistory(h HistoryStore) { p.history = h }

// SetCache attaches a latest-report cache.
func (p *Pipeline) SetCache(c ReportCache) { p.cache = c }

// RunAll analyzes every client found in the raw directory. One failing
// client never aborts the others; an error is returned only when no
// client could be analyzed at all.
func (p *Pipeline) RunAll(ctx context.Context) ([]*report.Report, error) {
	clients, err := p.loader.Clients()
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no client exports found in %s", p.cfg.Dirs.RawDir)
	}

	var reports []*report.Report
	for _, client := range clients {
		rep, err := p.RunClient(ctx, client)
		if err != nil {
			logger.Error("client analysis failed", "client", client, "error", err.Error())
			continue
		}
		reports = append(reports, rep)
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("all %d clients failed", len(clients))
	}
	return reports, nil
}

// RunClient analyzes one client end to end and writes the configured
// report formats.
func (p *Pipeline) RunClient(ctx context.Context, client string) (*report.Report, error) {
	started := p.now()
	logger.Info("analyzing client", "client", client)

	data, err := p.loader.Load(client)
	if err != nil {
		return nil, err
	}

	rep := p.analyze(data)
	rep.RunID = p.runID()
	rep.GeneratedAt = started

	if err := p.writeOutputs(ctx, rep); err != nil {
		return nil, err
	}
	p.fanOut(ctx, rep)

	logger.Info("client analysis complete",
		"client", client, "run_id", rep.RunID,
		"ads", rep.Summary.TotalAds, "duration", p.now().Sub(started).String())
	return rep, nil
}

// analyze runs the in-memory stages over loaded data.
func (p *Pipeline) analyze(data *loader.ClientData) *report.Report {
	primary, secondary := data.Primary, data.Secondary

	objective.ClassifyPass(primary)
	median := p.metrics.Enrich(primary, secondary)

	candidates := p.recommend.DuplicateCandidates(primary, median)
	actions := p.recommend.PauseActions(primary, median)

	// The non-candidate explanation only matters when nothing
	// qualified; with candidates present it is noise.
	var nonCandidates []recommend.NonCandidate
	if len(candidates) == 0 {
		nonCandidates = p.recommend.NonCandidates(primary, median)
	}

	insights := map[domain.Objective][]objective.Insight{}
	for _, obj := range domain.AllObjectives() {
		if found := objective.Insights(primary, obj, p.cfg.Anomalies); len(found) > 0 {
			insights[obj] = found
		}
	}

	return &report.Report{
		Client:        data.Client,
		MedianCPA:     median,
		Summary:       p.analyzer.Summarize(primary),
		ActionPlan:    recommend.Summarize(candidates, actions),
		Candidates:    candidates,
		Actions:       actions,
		NonCandidates: nonCandidates,
		Rankings:      p.analyzer.Rankings(primary),
		Anomalies:     p.analyzer.Anomalies(primary),
		Historical:    analysis.Historical(p.metrics, data.Historical),
		ByObjective:   p.analyzer.ByObjective(primary),
		Insights:      insights,
		ByManager:     p.analyzer.ByManager(primary),
		Ads:           primary.Ads,
	}
}

// writeOutputs renders the configured report formats and archives each
// written file.
func (p *Pipeline) writeOutputs(ctx context.Context, rep *report.Report) error {
	dir := p.cfg.Dirs.ReportsDir
	var written []string

	if p.cfg.Reports.JSON {
		path, err := report.WriteJSON(rep, dir)
		if err != nil {
			return err
		}
		written = append(written, path)
	}
	if p.cfg.Reports.Text {
		path, err := p.text.WriteText(rep, dir)
		if err != nil {
			return err
		}
		written = append(written, path)
	}
	if p.cfg.Reports.PDF {
		path, err := report.WritePDF(rep, dir)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	if p.archiver != nil {
		for _, path := range written {
			if err := p.archiver.Archive(ctx, rep.Client, path); err != nil {
				// Archiving is best effort; the local report exists.
				logger.Warn("archive failed", "path", path, "error", err.Error())
			}
		}
	}
	return nil
}

// fanOut pushes the finished report to the optional sinks. Failures are
// logged, never fatal: the report files are already on disk.
func (p *Pipeline) fanOut(ctx context.Context, rep *report.Report) {
	if p.history != nil {
		if err := p.history.Save(ctx, rep); err != nil {
			logger.Warn("history save failed", "client", rep.Client, "error", err.Error())
		}
	}
	if p.cache != nil {
		if err := p.cache.Put(ctx, rep); err != nil {
			logger.Warn("cache update failed", "client", rep.Client, "error", err.Error())
		}
	}
}
