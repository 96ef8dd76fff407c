package metrics

import "github.com/adscope/meta-ads-monitor/internal/domain"

// NormalizePass computes the 0-100 relative score for every ad. Each
// ad's raw composite is a weighted sum of its metrics normalized against
// the collection-wide maximum of that metric; cost metrics (cpa, cpc,
// cpl, cpm) are inverted so lower values score higher. The composites
// are then rescaled so the best ad lands on exactly 100.
//
// This is a two-pass computation over the whole collection: no ad's
// final value is known until every ad's composite has been seen.
func (e *Engine) NormalizePass(set *domain.AdSet) {
	if set.Empty() {
		return
	}

	maxes := e.metricMaxes(set)

	raw := make([]float64, len(set.Ads))
	for i := range set.Ads {
		raw[i] = e.composite(&set.Ads[i], maxes) * 100
	}

	maxRaw := 0.0
	for _, v := range raw {
		if v > maxRaw {
			maxRaw = v
		}
	}
	if maxRaw == 0 {
		// All-zero composites stay zero instead of dividing by zero.
		for i := range set.Ads {
			set.Ads[i].Score100 = 0
		}
		return
	}

	for i := range set.Ads {
		set.Ads[i].Score100 = clamp(raw[i]/maxRaw*100, 0, 100)
	}
}

// metricMaxes precomputes the per-metric maxima used as normalization
// denominators. For cost metrics only positive values count, so that
// ads without a defined cost don't flatten the scale.
func (e *Engine) metricMaxes(set *domain.AdSet) map[string]float64 {
	maxes := make(map[string]float64)
	for _, profile := range e.profiles {
		for metric := range profile {
			if _, done := maxes[metric]; done {
				continue
			}
			maxVal := 0.0
			for i := range set.Ads {
				v := set.Ads[i].Metric(metric)
				if domain.CostMetrics[metric] && v <= 0 {
					continue
				}
				if v > maxVal {
					maxVal = v
				}
			}
			if maxVal == 0 {
				maxVal = 1
			}
			maxes[metric] = maxVal
		}
	}
	return maxes
}

func (e *Engine) composite(ad *domain.Ad, maxes map[string]float64) float64 {
	profile := e.profiles.Profile(string(ad.Objective))

	var sum float64
	for metric, weight := range profile {
		v := ad.Metric(metric)
		normalized := clamp(v/maxes[metric], 0, 1)
		if domain.CostMetrics[metric] {
			// Lower is better: a cost at the collection maximum is
			// worth 0, an absent cost reads as the full component.
			normalized = 1 - normalized
		}
		sum += normalized * weight
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
