package metrics

import "github.com/adscope/meta-ads-monitor/internal/domain"

// scoreAction pairs a raw counter with the weight used when the action
// is absent from the configured weight table.
type scoreAction struct {
	name     string
	fallback float64
}

// The counters that feed the weighted conversion score. Direct results,
// leads and purchases carry value even on an unconfigured table; every
// other action must be weighted explicitly or it contributes nothing.
var scoreActions = []scoreAction{
	{"results", 1.0},
	{"msg_init", 0},
	{"msg_contacts", 0},
	{"link_clicks", 0},
	{"ig_profile", 0},
	{"leads", 1.0},
	{"purchases", 2.0},
}

// ScorePass sets the weighted conversion score on every ad in the set.
// Missing counters were already coerced to 0 at the loader boundary, so
// there are no error conditions here.
func (e *Engine) ScorePass(set *domain.AdSet) {
	if set.Empty() {
		return
	}
	for i := range set.Ads {
		set.Ads[i].Score = e.score(&set.Ads[i])
	}
}

func (e *Engine) score(ad *domain.Ad) float64 {
	var total float64
	for _, a := range scoreActions {
		total += ad.Metric(a.name) * e.weights.Weight(a.name, a.fallback)
	}
	return total
}
