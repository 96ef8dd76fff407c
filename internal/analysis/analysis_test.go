package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
	"github.com/adscope/meta-ads-monitor/internal/metrics"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(config.Default())
}

func cpaOf(v float64) *float64 { return &v }

func rankFixture() *domain.AdSet {
	return &domain.AdSet{
		Client:    "ACME",
		Window:    "30d",
		MedianCPA: 100,
		Ads: []domain.Ad{
			{Name: "whale", Score: 60, Spend: 9000, CPA: cpaOf(150), Score100: 88,
				TrendRatio: 1.1, Activity: domain.ActivityActive,
				Efficiency: domain.EfficiencyNormal, Trend: domain.TrendStable,
				Classification: domain.ClassHealthy},
			{Name: "sniper", Score: 20, Spend: 1000, CPA: cpaOf(50), Score100: 95,
				TrendRatio: 2.0, Activity: domain.ActivityActive,
				Efficiency: domain.EfficiencyVeryEfficient, Trend: domain.TrendAscending,
				Classification: domain.ClassHero},
			{Name: "fader", Score: 10, Spend: 3000, CPA: cpaOf(300), Score100: 30,
				TrendRatio: 0.4, Activity: domain.ActivitySpending,
				Efficiency: domain.EfficiencyExpensive, Trend: domain.TrendCritical,
				Classification: domain.ClassAlert},
			{Name: "ghost", Score: 0, Spend: 5000, Score100: 0,
				Activity: domain.ActivityInactive, Efficiency: domain.EfficiencyNoData,
				Trend: domain.TrendNoData, Classification: domain.ClassDead},
		},
	}
}

func TestRankings(t *testing.T) {
	a := testAnalyzer()
	r := a.Rankings(rankFixture())

	require.NotEmpty(t, r.Impact)
	assert.Equal(t, "whale", r.Impact[0].Name)

	assert.Equal(t, "whale", r.Volume[0].Name)
	assert.Equal(t, "ghost", r.Volume[1].Name)

	// efficiency admits only ads with a defined positive CPA, cheapest first
	require.Len(t, r.Efficiency, 3)
	assert.Equal(t, "sniper", r.Efficiency[0].Name)
	assert.Equal(t, "fader", r.Efficiency[2].Name)

	assert.Equal(t, "sniper", r.Heroes[0].Name)

	// trending excludes the ad with no measurable ratio
	require.Len(t, r.Trending, 3)
	assert.Equal(t, "sniper", r.Trending[0].Name)
}

func TestRankingsCappedAtFive(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{}
	for i := 0; i < 8; i++ {
		set.Ads = append(set.Ads, domain.Ad{
			Name:  string(rune('a' + i)),
			Score: float64(i),
		})
	}
	r := a.Rankings(set)
	assert.Len(t, r.Impact, 5)
	assert.Equal(t, "h", r.Impact[0].Name)
}

func TestRankingsMinConversionsFilter(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "fractional", Score: 0.5, CPA: cpaOf(10)},
		{Name: "real", Score: 5, CPA: cpaOf(20)},
	}}
	r := a.Rankings(set)
	require.Len(t, r.Efficiency, 1)
	assert.Equal(t, "real", r.Efficiency[0].Name)
}

func TestSummarize(t *testing.T) {
	a := testAnalyzer()
	s := a.Summarize(rankFixture())

	assert.Equal(t, 18000.0, s.TotalSpend)
	assert.Equal(t, 90.0, s.TotalScore)
	assert.Equal(t, 200.0, s.GlobalCPA)
	assert.Equal(t, 100.0, s.MedianCPA)
	assert.Equal(t, 4, s.TotalAds)
	assert.Equal(t, 3, s.WithConversions)
	assert.InDelta(t, (88+95+30+0)/4.0, s.AvgScore100, 1e-9)

	assert.Equal(t, 2, s.Activity[domain.ActivityActive])
	assert.Equal(t, 1, s.Activity[domain.ActivityInactive])
	assert.Equal(t, 1, s.Efficiency[domain.EfficiencyVeryEfficient])
	assert.Equal(t, 1, s.Classification[domain.ClassHero])
	assert.Equal(t, 1, s.Classification[domain.ClassDead])
	assert.Equal(t, 1, s.Trend[domain.TrendCritical])
}

func TestSummarizeEmptySet(t *testing.T) {
	a := testAnalyzer()
	s := a.Summarize(&domain.AdSet{})
	assert.Equal(t, 0.0, s.GlobalCPA)
	assert.Equal(t, 0.0, s.AvgScore100)
	assert.Equal(t, 0, s.TotalAds)
}

func TestAnomalies(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "saturated", Frequency: 6.2},
		{Name: "invisible", CTR: 0.1, Impressions: 50000},
		{Name: "clicky", LinkClicks: 600, Results: 10},
		{Name: "burner", Score: 0, Spend: 7000},
		{Name: "collapsing", Trend: domain.TrendCritical, TrendRatio: 0.3},
		{Name: "fine", Score: 20, Spend: 1000, Frequency: 1.5, CTR: 2.0},
	}}

	got := a.Anomalies(set)
	require.Len(t, got, 5)

	byAd := map[string]Anomaly{}
	for _, an := range got {
		byAd[an.Ad] = an
	}
	assert.Equal(t, AnomalyHighFrequency, byAd["saturated"].Type)
	assert.Equal(t, SeverityMedium, byAd["saturated"].Severity)
	assert.Equal(t, AnomalyVeryLowCTR, byAd["invisible"].Type)
	assert.Equal(t, AnomalyClickQuality, byAd["clicky"].Type)
	assert.Equal(t, 60.0, byAd["clicky"].Value)
	assert.Equal(t, AnomalySpendNoResults, byAd["burner"].Type)
	assert.Equal(t, SeverityHigh, byAd["burner"].Severity)
	assert.Equal(t, AnomalyCriticalTrend, byAd["collapsing"].Type)
}

func TestAnomaliesLowCTRNeedsImpressions(t *testing.T) {
	a := testAnalyzer()
	// Weak CTR over a tiny sample is noise, not an anomaly.
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "small-sample", CTR: 0.1, Impressions: 500},
	}}
	assert.Empty(t, a.Anomalies(set))
}

func TestAnomaliesOneAdCanRaiseSeveral(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "disaster", Frequency: 7, Score: 0, Spend: 9000, Trend: domain.TrendCritical},
	}}
	assert.Len(t, a.Anomalies(set), 3)
}

func TestHistorical(t *testing.T) {
	engine := metrics.NewEngine(config.Default())
	rows := []domain.Ad{
		{Name: "a", Period: "2025-06", Spend: 1000, Results: 10},
		{Name: "b", Period: "2025-06", Spend: 500, Results: 5},
		{Name: "a", Period: "2025-07", Spend: 2000, Results: 40},
	}

	got := Historical(engine, rows)

	require.Len(t, got, 2)
	assert.Equal(t, "2025-06", got[0].Period)
	assert.Equal(t, 15.0, got[0].Score)
	assert.Equal(t, 1500.0, got[0].Spend)
	assert.Equal(t, 100.0, got[0].CPA)
	assert.Equal(t, 2, got[0].Ads)

	assert.Equal(t, "2025-07", got[1].Period)
	assert.Equal(t, 50.0, got[1].CPA)
	assert.Equal(t, 1, got[1].Ads)
}

func TestHistoricalEmpty(t *testing.T) {
	engine := metrics.NewEngine(config.Default())
	assert.Nil(t, Historical(engine, nil))
}

func TestByObjective(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "m1", Objective: domain.ObjectiveMessaging, Spend: 1000, Score: 20,
			CPA: cpaOf(50), Score100: 80, Classification: domain.ClassHero},
		{Name: "m2", Objective: domain.ObjectiveMessaging, Spend: 500, Score: 5,
			CPA: cpaOf(100), Score100: 40, Classification: domain.ClassAlert},
		{Name: "t1", Objective: domain.ObjectiveTraffic, Spend: 800, Score: 0,
			Score100: 0, Classification: domain.ClassDead},
	}}

	got := a.ByObjective(set)

	require.Len(t, got, 2)
	msg := got[domain.ObjectiveMessaging]
	assert.Equal(t, 2, msg.TotalAds)
	assert.Equal(t, 1500.0, msg.TotalSpend)
	assert.Equal(t, 25.0, msg.TotalScore)
	assert.Equal(t, 75.0, msg.AvgCPA)
	assert.Equal(t, 60.0, msg.AvgScore100)
	assert.Equal(t, 1, msg.Heroes)
	require.Len(t, msg.Top, 2)
	assert.Equal(t, "m1", msg.Top[0].Name)

	tr := got[domain.ObjectiveTraffic]
	assert.Equal(t, 1, tr.Dead)
	assert.Equal(t, 0.0, tr.AvgCPA)
}

func TestByManager(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "i1", Manager: "Ian", Spend: 1000, Score: 20, Score100: 90},
		{Name: "i2", Manager: "Ian", Spend: 500, Score: 5, Score100: 50},
		{Name: "g1", Manager: "General", Spend: 3000, Score: 10, Score100: 40},
	}}

	got := a.ByManager(set)

	require.Len(t, got, 2)
	ian := got["Ian"]
	assert.Equal(t, 1500.0, ian.Spend)
	assert.Equal(t, 25.0, ian.Conversions)
	assert.Equal(t, 60.0, ian.RealCPA)
	assert.Equal(t, 70.0, ian.AvgQuality)
	assert.Equal(t, 2, ian.AdCount)

	gen := got["General"]
	assert.Equal(t, 300.0, gen.RealCPA)
}

func TestByManagerSingleManagerIsNil(t *testing.T) {
	a := testAnalyzer()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "a", Manager: "General"},
		{Name: "b", Manager: "General"},
	}}
	assert.Nil(t, a.ByManager(set))
}
