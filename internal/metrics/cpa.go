package metrics

import (
	"sort"

	"github.com/adscope/meta-ads-monitor/internal/domain"
)

// ComputeCPA returns spend/score when the ad has conversions, nil
// otherwise. Ads without conversions must read as undefined, not zero,
// or they would drag the account median toward 0.
func ComputeCPA(ad *domain.Ad) *float64 {
	if ad.Score <= 0 {
		return nil
	}
	cpa := ad.Spend / ad.Score
	return &cpa
}

// MedianCPA computes the account's reference efficiency point: the
// median over all defined, strictly positive CPA values. Returns 0 when
// no ad has a usable CPA; callers treat 0 as "no reference available".
func MedianCPA(set *domain.AdSet) float64 {
	var values []float64
	for i := range set.Ads {
		if v, ok := set.Ads[i].CPAValue(); ok && v > 0 {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}

	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// GradeEfficiency buckets an ad by its CPA relative to the account
// median. Boundaries are inclusive: a ratio of exactly 0.7 is still
// VERY_EFFICIENT. A zero median means there is no reference point, so
// every graded ad lands on NORMAL rather than dividing by zero.
func (e *Engine) GradeEfficiency(ad *domain.Ad, medianCPA float64) domain.EfficiencyTier {
	cpa, ok := ad.CPAValue()
	if !ok || cpa == 0 {
		return domain.EfficiencyNoData
	}
	if medianCPA == 0 {
		return domain.EfficiencyNormal
	}

	ratio := cpa / medianCPA
	switch {
	case ratio <= e.thresholds.EfficiencyVeryGood:
		return domain.EfficiencyVeryEfficient
	case ratio <= e.thresholds.EfficiencyGood:
		return domain.EfficiencyEfficient
	case ratio <= e.thresholds.EfficiencyNormal:
		return domain.EfficiencyNormal
	default:
		return domain.EfficiencyExpensive
	}
}
