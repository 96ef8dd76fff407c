package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adscope/meta-ads-monitor/internal/pkg/logger"
	"github.com/adscope/meta-ads-monitor/internal/report"
	"github.com/adscope/meta-ads-monitor/internal/repository/postgres"
)

// ReportSource serves stored reports; the Postgres repository is the
// production implementation.
type ReportSource interface {
	Latest(ctx context.Context, client string) (*report.Report, error)
	History(ctx context.Context, client string, limit int) ([]postgres.RunSummary, error)
	Clients(ctx context.Context) ([]string, error)
}

// ReportCache fronts the source with the latest report per client.
type ReportCache interface {
	Get(ctx context.Context, client string) (*report.Report, error)
	Put(ctx context.Context, rep *report.Report) error
}

// Runner re-analyzes one client on demand.
type Runner interface {
	RunClient(ctx context.Context, client string) (*report.Report, error)
}

// Pinger reports backend liveness for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the dashboard endpoint implementations. Cache, runner
// and pingers are optional; nil disables the related behavior.
type Handlers struct {
	source ReportSource
	cache  ReportCache
	runner Runner
	checks map[string]Pinger
}

// NewHandlers creates the handler set over a report source.
func NewHandlers(source ReportSource) *Handlers {
	return &Handlers{source: source, checks: map[string]Pinger{}}
}

// SetCache attaches the latest-report cache.
func (h *Handlers) SetCache(c ReportCache) { h.cache = c }

// SetRunner attaches the on-demand analysis runner.
func (h *Handlers) SetRunner(r Runner) { h.runner = r }

// AddCheck registers a backend liveness check by name.
func (h *Handlers) AddCheck(name string, p Pinger) { h.checks[name] = p }

// HealthCheck reports service and backend status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	healthy := true
	backends := map[string]string{}
	for name, p := range h.checks {
		if err := p.Ping(r.Context()); err != nil {
			backends[name] = "down"
			healthy = false
		} else {
			backends[name] = "ok"
		}
	}
	if len(backends) > 0 {
		status["backends"] = backends
	}
	if !healthy {
		status["status"] = "degraded"
	}

	respondJSON(w, http.StatusOK, status)
}

// ListClients returns every client with at least one stored run.
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.source.Clients(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "listing clients failed")
		return
	}
	if clients == nil {
		clients = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
}

// GetReport returns the latest full report for a client, cache first.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// GetSummary returns the account summary and the action plan only.
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"client":       rep.Client,
		"run_id":       rep.RunID,
		"generated_at": rep.GeneratedAt,
		"summary":      rep.Summary,
		"action_plan":  rep.ActionPlan,
	})
}

// GetRecommendations returns the actionable sections of the latest
// report.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"client":               rep.Client,
		"duplicate_candidates": rep.Candidates,
		"actions":              rep.Actions,
		"non_candidates":       rep.NonCandidates,
	})
}

// GetHistory lists a client's stored runs, newest first. The limit
// query parameter caps the page size.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	client := clientParam(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.source.History(r.Context(), client, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "listing history failed")
		return
	}
	if runs == nil {
		runs = []postgres.RunSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"client": client, "runs": runs})
}

// Analyze re-runs the analysis for a client and returns the new report.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusNotImplemented, "on-demand analysis is not enabled")
		return
	}

	client := clientParam(r)
	rep, err := h.runner.RunClient(r.Context(), client)
	if err != nil {
		logger.Error("on-demand analysis failed", "client", client, "error", err.Error())
		respondError(w, http.StatusUnprocessableEntity, "analysis failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// latest resolves the newest report for the request's client, trying
// the cache before the source and repopulating it on a miss.
func (h *Handlers) latest(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	client := clientParam(r)
	ctx := r.Context()

	if h.cache != nil {
		if rep, err := h.cache.Get(ctx, client); err == nil {
			return rep, true
		}
	}

	rep, err := h.source.Latest(ctx, client)
	if errors.Is(err, postgres.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no report for client "+client)
		return nil, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading report failed")
		return nil, false
	}

	if h.cache != nil {
		if err := h.cache.Put(ctx, rep); err != nil {
			logger.Warn("cache repopulation failed", "client", client, "error", err.Error())
		}
	}
	return rep, true
}

func clientParam(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "client"))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encoding response failed", "error", err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
