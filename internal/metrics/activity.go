package metrics

import "github.com/adscope/meta-ads-monitor/internal/domain"

// ActivityPass joins the 7-day collection by ad name (left join: every
// primary ad is kept, unmatched ads default to 0) and classifies what
// each ad did in the short window.
func (e *Engine) ActivityPass(primary, secondary *domain.AdSet) {
	if secondary.Empty() {
		for i := range primary.Ads {
			primary.Ads[i].Score7d = 0
			primary.Ads[i].Spend7d = 0
			primary.Ads[i].Activity = domain.ActivityNoData7D
		}
		return
	}

	recent := secondary.ByName()
	for i := range primary.Ads {
		ad := &primary.Ads[i]
		if match, ok := recent[ad.Name]; ok {
			ad.Score7d = match.Score
			ad.Spend7d = match.Spend
		} else {
			ad.Score7d = 0
			ad.Spend7d = 0
		}

		switch {
		case ad.Score7d > 0:
			ad.Activity = domain.ActivityActive
		case ad.Spend7d > 0:
			ad.Activity = domain.ActivitySpending
		default:
			ad.Activity = domain.ActivityInactive
		}
	}
}

// TrendPass compares each ad's 7-day daily rate against its 30-day
// daily rate. Runs after ActivityPass so Score7d is already joined.
func (e *Engine) TrendPass(primary, secondary *domain.AdSet) {
	if secondary.Empty() {
		for i := range primary.Ads {
			primary.Ads[i].Trend = domain.TrendNoData
			primary.Ads[i].TrendRatio = 1.0
		}
		return
	}

	for i := range primary.Ads {
		ad := &primary.Ads[i]
		ad.Trend = e.classifyTrend(ad)
		ad.TrendRatio = trendRatio(ad)
	}
}

func (e *Engine) classifyTrend(ad *domain.Ad) domain.TrendState {
	if ad.Score == 0 {
		if ad.Score7d > 0 {
			return domain.TrendNew
		}
		return domain.TrendNoData
	}

	daily30 := ad.Score / 30
	daily7 := 0.0
	if ad.Score7d > 0 {
		daily7 = ad.Score7d / 7
	}
	if daily30 == 0 {
		if daily7 > 0 {
			return domain.TrendNew
		}
		return domain.TrendNoData
	}

	ratio := daily7 / daily30
	// CRITICAL must be checked before the broader DECLINING band:
	// 0.5 <= 0.8, so the order of these comparisons is load-bearing.
	switch {
	case ratio >= e.thresholds.TrendAscending:
		return domain.TrendAscending
	case ratio <= e.thresholds.TrendCritical:
		return domain.TrendCritical
	case ratio <= e.thresholds.TrendDeclining:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// trendRatio is the numeric ratio reported alongside the trend state,
// used by rankings and charts. Defaults to 1.0 when the 30-day score
// gives no rate to compare against.
func trendRatio(ad *domain.Ad) float64 {
	if ad.Score <= 0 {
		return 1.0
	}
	return (ad.Score7d / 7) / (ad.Score / 30)
}
