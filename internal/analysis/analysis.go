// Package analysis produces the descriptive sections of a report:
// rankings, the account summary, anomaly detection, historical trends,
// per-objective breakdowns and the manager comparison.
package analysis

import (
	"fmt"
	"sort"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
	"github.com/adscope/meta-ads-monitor/internal/metrics"
)

// RankEntry is one row of any ranking. Only the fields relevant to the
// ranking's criterion are populated by the report layer.
type RankEntry struct {
	Name           string                `json:"ad_name"`
	Score          float64               `json:"score"`
	Score100       float64               `json:"score_100"`
	CPA            *float64              `json:"cpa"`
	Spend          float64               `json:"spend"`
	Score7d        float64               `json:"score_7d"`
	TrendRatio     float64               `json:"trend_ratio"`
	Activity       domain.ActivityState  `json:"activity,omitempty"`
	Efficiency     domain.EfficiencyTier `json:"efficiency,omitempty"`
	Trend          domain.TrendState     `json:"trend,omitempty"`
	Classification domain.Classification `json:"classification,omitempty"`
}

// Rankings holds the five top-5 lists of a report.
type Rankings struct {
	Impact     []RankEntry `json:"impact"`     // highest weighted score
	Volume     []RankEntry `json:"volume"`     // highest spend
	Efficiency []RankEntry `json:"efficiency"` // lowest CPA with real conversions
	Heroes     []RankEntry `json:"heroes"`     // highest normalized score
	Trending   []RankEntry `json:"trending"`   // strongest 7d growth
}

const rankingSize = 5

// Analyzer computes descriptive statistics over enriched collections.
type Analyzer struct {
	thresholds config.ThresholdConfig
	anomalies  config.AnomalyConfig
}

// NewAnalyzer creates an analyzer from the run configuration.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{thresholds: cfg.Thresholds, anomalies: cfg.Anomalies}
}

func entryFor(ad *domain.Ad) RankEntry {
	return RankEntry{
		Name:           ad.Name,
		Score:          ad.Score,
		Score100:       ad.Score100,
		CPA:            ad.CPA,
		Spend:          ad.Spend,
		Score7d:        ad.Score7d,
		TrendRatio:     ad.TrendRatio,
		Activity:       ad.Activity,
		Efficiency:     ad.Efficiency,
		Trend:          ad.Trend,
		Classification: ad.Classification,
	}
}

func topBy(ads []*domain.Ad, less func(a, b *domain.Ad) bool) []RankEntry {
	sorted := make([]*domain.Ad, len(ads))
	copy(sorted, ads)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > rankingSize {
		sorted = sorted[:rankingSize]
	}
	out := make([]RankEntry, 0, len(sorted))
	for _, ad := range sorted {
		out = append(out, entryFor(ad))
	}
	return out
}

// Rankings builds the five top-5 lists. The efficiency ranking only
// admits ads with a real CPA and enough conversions to be meaningful;
// the trending ranking only admits ads with a measurable growth ratio.
func (a *Analyzer) Rankings(set *domain.AdSet) Rankings {
	all := make([]*domain.Ad, 0, len(set.Ads))
	for i := range set.Ads {
		all = append(all, &set.Ads[i])
	}

	var withCPA []*domain.Ad
	for _, ad := range all {
		if cpa, ok := ad.CPAValue(); ok && cpa > 0 && ad.Score >= a.thresholds.MinConversionsRanking {
			withCPA = append(withCPA, ad)
		}
	}

	var withTrend []*domain.Ad
	for _, ad := range all {
		if ad.TrendRatio > 0 {
			withTrend = append(withTrend, ad)
		}
	}

	return Rankings{
		Impact: topBy(all, func(x, y *domain.Ad) bool { return x.Score > y.Score }),
		Volume: topBy(all, func(x, y *domain.Ad) bool { return x.Spend > y.Spend }),
		Efficiency: topBy(withCPA, func(x, y *domain.Ad) bool {
			return *x.CPA < *y.CPA
		}),
		Heroes:   topBy(all, func(x, y *domain.Ad) bool { return x.Score100 > y.Score100 }),
		Trending: topBy(withTrend, func(x, y *domain.Ad) bool { return x.TrendRatio > y.TrendRatio }),
	}
}

// Summary is the aggregate view of one client account.
type Summary struct {
	TotalSpend      float64 `json:"total_spend"`
	TotalScore      float64 `json:"total_score"`
	GlobalCPA       float64 `json:"global_cpa"`
	MedianCPA       float64 `json:"median_cpa"`
	AvgScore100     float64 `json:"avg_score_100"`
	TotalAds        int     `json:"total_ads"`
	WithConversions int     `json:"with_conversions"`

	Activity       map[domain.ActivityState]int  `json:"activity"`
	Efficiency     map[domain.EfficiencyTier]int `json:"efficiency"`
	Classification map[domain.Classification]int `json:"classification"`
	Trend          map[domain.TrendState]int     `json:"trend"`
}

// Summarize computes account totals and the per-state counts. The
// global CPA is total spend over total score, not an average of
// per-ad CPAs.
func (a *Analyzer) Summarize(set *domain.AdSet) Summary {
	s := Summary{
		MedianCPA:      set.MedianCPA,
		TotalAds:       len(set.Ads),
		Activity:       map[domain.ActivityState]int{},
		Efficiency:     map[domain.EfficiencyTier]int{},
		Classification: map[domain.Classification]int{},
		Trend:          map[domain.TrendState]int{},
	}

	for i := range set.Ads {
		ad := &set.Ads[i]
		s.TotalSpend += ad.Spend
		s.TotalScore += ad.Score
		s.AvgScore100 += ad.Score100
		if ad.CPA != nil {
			s.WithConversions++
		}
		s.Activity[ad.Activity]++
		s.Efficiency[ad.Efficiency]++
		s.Classification[ad.Classification]++
		s.Trend[ad.Trend]++
	}

	if s.TotalScore > 0 {
		s.GlobalCPA = s.TotalSpend / s.TotalScore
	}
	if s.TotalAds > 0 {
		s.AvgScore100 /= float64(s.TotalAds)
	}
	return s
}

// AnomalyType identifies the failure mode behind an anomaly.
type AnomalyType string

const (
	AnomalyHighFrequency  AnomalyType = "HIGH_FREQUENCY"
	AnomalyVeryLowCTR     AnomalyType = "VERY_LOW_CTR"
	AnomalyClickQuality   AnomalyType = "CLICK_QUALITY"
	AnomalySpendNoResults AnomalyType = "SPEND_NO_RESULTS"
	AnomalyCriticalTrend  AnomalyType = "CRITICAL_TREND"
)

// Severity orders anomalies for the operator.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Anomaly is one detected problem on one ad.
type Anomaly struct {
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
	Ad       string      `json:"ad_name"`
	Value    float64     `json:"value"`
	Message  string      `json:"message"`
	Action   string      `json:"suggested_action"`
}

// Anomalies scans the set for saturated audiences, dead-on-arrival
// creatives, suspicious click quality, budget burned without results
// and collapsing trends. One ad can raise several anomalies.
func (a *Analyzer) Anomalies(set *domain.AdSet) []Anomaly {
	var out []Anomaly

	for i := range set.Ads {
		ad := &set.Ads[i]

		if ad.Frequency > a.anomalies.FrequencyVeryHigh {
			out = append(out, Anomaly{
				Type:     AnomalyHighFrequency,
				Severity: SeverityMedium,
				Ad:       ad.Name,
				Value:    ad.Frequency,
				Message:  fmt.Sprintf("Frequency %.1f, the audience is likely saturated", ad.Frequency),
				Action:   "Broaden the audience or pause to avoid fatigue",
			})
		}

		if ad.CTR > 0 && ad.CTR < a.anomalies.CTRVeryLow && ad.Impressions > a.anomalies.MinImpressions {
			out = append(out, Anomaly{
				Type:     AnomalyVeryLowCTR,
				Severity: SeverityMedium,
				Ad:       ad.Name,
				Value:    ad.CTR,
				Message:  fmt.Sprintf("CTR %.2f%% over %.0f impressions", ad.CTR, ad.Impressions),
				Action:   "Review the creative and the targeting",
			})
		}

		if ad.LinkClicks > 0 && ad.Results > 0 && ad.LinkClicks/ad.Results > a.anomalies.ClickVisitRatioMax {
			ratio := ad.LinkClicks / ad.Results
			out = append(out, Anomaly{
				Type:     AnomalyClickQuality,
				Severity: SeverityMedium,
				Ad:       ad.Name,
				Value:    ratio,
				Message:  fmt.Sprintf("%.0f clicks per result, click quality looks poor", ratio),
				Action:   "Check placements for accidental or bot traffic",
			})
		}

		if ad.Score == 0 && ad.Spend > a.thresholds.PauseSpendMin {
			out = append(out, Anomaly{
				Type:     AnomalySpendNoResults,
				Severity: SeverityHigh,
				Ad:       ad.Name,
				Value:    ad.Spend,
				Message:  fmt.Sprintf("Spent %.0f without a single conversion", ad.Spend),
				Action:   "Pause immediately and review the setup",
			})
		}

		if ad.Trend == domain.TrendCritical {
			out = append(out, Anomaly{
				Type:     AnomalyCriticalTrend,
				Severity: SeverityHigh,
				Ad:       ad.Name,
				Value:    ad.TrendRatio,
				Message:  fmt.Sprintf("Critical drop: 7d performance is %.0f%% of the 30d rate", ad.TrendRatio*100),
				Action:   "Decide between pausing and refreshing the creative",
			})
		}
	}
	return out
}

// PeriodSummary aggregates the historical rows of one month.
type PeriodSummary struct {
	Period string  `json:"period"`
	Score  float64 `json:"score"`
	Spend  float64 `json:"spend"`
	CPA    float64 `json:"cpa"`
	Ads    int     `json:"ads"`
}

// Historical groups historical rows by period, scores them with the
// basic weighted score and returns one summary per period sorted
// chronologically by period label.
func Historical(engine *metrics.Engine, rows []domain.Ad) []PeriodSummary {
	if len(rows) == 0 {
		return nil
	}

	scored := &domain.AdSet{Ads: make([]domain.Ad, len(rows))}
	copy(scored.Ads, rows)
	engine.ScorePass(scored)

	byPeriod := map[string]*PeriodSummary{}
	var order []string
	for i := range scored.Ads {
		ad := &scored.Ads[i]
		p, ok := byPeriod[ad.Period]
		if !ok {
			p = &PeriodSummary{Period: ad.Period}
			byPeriod[ad.Period] = p
			order = append(order, ad.Period)
		}
		p.Score += ad.Score
		p.Spend += ad.Spend
		p.Ads++
	}

	sort.Strings(order)
	out := make([]PeriodSummary, 0, len(order))
	for _, period := range order {
		p := byPeriod[period]
		if p.Score > 0 {
			p.CPA = p.Spend / p.Score
		}
		out = append(out, *p)
	}
	return out
}

// ObjectiveStats is the breakdown of one detected objective.
type ObjectiveStats struct {
	TotalAds    int         `json:"total_ads"`
	TotalSpend  float64     `json:"total_spend"`
	TotalScore  float64     `json:"total_score"`
	AvgCPA      float64     `json:"avg_cpa"`
	AvgScore100 float64     `json:"avg_score_100"`
	Heroes      int         `json:"heroes"`
	Dead        int         `json:"dead"`
	Top         []RankEntry `json:"top"`
}

// ByObjective splits the set by detected objective and aggregates each
// slice, with the 3 best ads of each objective by weighted score.
func (a *Analyzer) ByObjective(set *domain.AdSet) map[domain.Objective]ObjectiveStats {
	groups := map[domain.Objective][]*domain.Ad{}
	for i := range set.Ads {
		ad := &set.Ads[i]
		groups[ad.Objective] = append(groups[ad.Objective], ad)
	}

	out := make(map[domain.Objective]ObjectiveStats, len(groups))
	for obj, ads := range groups {
		stats := ObjectiveStats{TotalAds: len(ads)}

		cpaSum, cpaCount := 0.0, 0
		for _, ad := range ads {
			stats.TotalSpend += ad.Spend
			stats.TotalScore += ad.Score
			stats.AvgScore100 += ad.Score100
			if cpa, ok := ad.CPAValue(); ok {
				cpaSum += cpa
				cpaCount++
			}
			switch ad.Classification {
			case domain.ClassHero:
				stats.Heroes++
			case domain.ClassDead:
				stats.Dead++
			}
		}
		if cpaCount > 0 {
			stats.AvgCPA = cpaSum / float64(cpaCount)
		}
		stats.AvgScore100 /= float64(len(ads))

		top := topBy(ads, func(x, y *domain.Ad) bool { return x.Score > y.Score })
		if len(top) > 3 {
			top = top[:3]
		}
		stats.Top = top

		out[obj] = stats
	}
	return out
}

// ManagerStats compares one manager's share of the account.
type ManagerStats struct {
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	RealCPA     float64 `json:"real_cpa"`
	AvgQuality  float64 `json:"avg_quality"`
	AdCount     int     `json:"ad_count"`
}

// ByManager compares managers when the account has more than one;
// returns nil otherwise. The real CPA is total spend over total score
// per manager, not an average of per-ad CPAs.
func (a *Analyzer) ByManager(set *domain.AdSet) map[string]ManagerStats {
	groups := map[string][]*domain.Ad{}
	for i := range set.Ads {
		ad := &set.Ads[i]
		groups[ad.Manager] = append(groups[ad.Manager], ad)
	}
	if len(groups) < 2 {
		return nil
	}

	out := make(map[string]ManagerStats, len(groups))
	for manager, ads := range groups {
		stats := ManagerStats{AdCount: len(ads)}
		for _, ad := range ads {
			stats.Spend += ad.Spend
			stats.Conversions += ad.Score
			stats.AvgQuality += ad.Score100
		}
		if stats.Conversions > 0 {
			stats.RealCPA = stats.Spend / stats.Conversions
		}
		stats.AvgQuality /= float64(len(ads))
		out[manager] = stats
	}
	return out
}
