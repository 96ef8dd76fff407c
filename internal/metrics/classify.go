package metrics

import "github.com/adscope/meta-ads-monitor/internal/domain"

// Classify assigns the final verdict. The rules form a decision table
// evaluated top-down; the first match wins, so an ad meeting both the
// HERO and HEALTHY criteria is a HERO. Every ad lands on exactly one of
// the four classes.
func (e *Engine) Classify(ad *domain.Ad) domain.Classification {
	// Hero: high normalized score, efficient, and converting right now.
	if ad.Score100 >= e.thresholds.ScoreHero &&
		(ad.Efficiency == domain.EfficiencyVeryEfficient || ad.Efficiency == domain.EfficiencyEfficient) &&
		ad.Activity == domain.ActivityActive {
		return domain.ClassHero
	}

	// Healthy: good score without a cost or trend problem.
	if ad.Score100 >= e.thresholds.ScoreHealthy &&
		ad.Efficiency != domain.EfficiencyExpensive &&
		ad.Trend != domain.TrendCritical {
		return domain.ClassHealthy
	}

	// Dead: dormant, collapsing, or burning budget with nothing to show.
	if ad.Activity == domain.ActivityInactive ||
		ad.Trend == domain.TrendCritical ||
		(ad.Score == 0 && ad.Spend > e.thresholds.PauseSpendMin) {
		return domain.ClassDead
	}

	return domain.ClassAlert
}
