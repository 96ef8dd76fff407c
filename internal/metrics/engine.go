// Package metrics implements the enrichment engine: the weighted
// conversion score, CPA and efficiency grading against the account
// median, 7d-vs-30d activity and trend detection, the objective-weighted
// normalized 0-100 score, and the final classification.
//
// Every pass is a pure function of already-computed fields. The passes
// run in a fixed order (score, cpa, median, efficiency, activity/trend,
// score_100, classification) because later passes read earlier outputs.
package metrics

import (
	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
)

// Engine enriches ad collections using an immutable configuration
// snapshot. Construct one per run; it holds no mutable state.
type Engine struct {
	weights    config.WeightsConfig
	profiles   config.ObjectivesConfig
	thresholds config.ThresholdConfig
}

// NewEngine creates an enrichment engine from the run configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		weights:    cfg.Weights,
		profiles:   cfg.Objectives,
		thresholds: cfg.Thresholds,
	}
}

// Enrich runs the full enrichment pipeline over the primary (30-day)
// collection, joining the secondary (7-day) collection by ad name for
// activity and trend. The secondary set may be nil or empty; every ad
// then degrades to the NO_DATA_7D / NO_DATA states. Returns the account
// median CPA, which is also stored on the set.
func (e *Engine) Enrich(primary, secondary *domain.AdSet) float64 {
	e.ScorePass(primary)

	for i := range primary.Ads {
		primary.Ads[i].CPA = ComputeCPA(&primary.Ads[i])
	}

	median := MedianCPA(primary)
	primary.MedianCPA = median

	for i := range primary.Ads {
		primary.Ads[i].Efficiency = e.GradeEfficiency(&primary.Ads[i], median)
	}

	if !secondary.Empty() {
		e.ScorePass(secondary)
	}
	e.ActivityPass(primary, secondary)
	e.TrendPass(primary, secondary)

	e.NormalizePass(primary)

	for i := range primary.Ads {
		primary.Ads[i].Classification = e.Classify(&primary.Ads[i])
	}

	return median
}
