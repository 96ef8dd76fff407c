package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/meta-ads-monitor/internal/domain"
)

func enrichFixture() (*domain.AdSet, *domain.AdSet) {
	primary := &domain.AdSet{
		Client: "ACME",
		Window: "30d",
		Ads: []domain.Ad{
			{Name: "winner", Objective: domain.ObjectiveGeneral, Spend: 1000, Results: 40, MsgInit: 10},
			{Name: "steady", Objective: domain.ObjectiveGeneral, Spend: 900, Results: 15},
			{Name: "burner", Objective: domain.ObjectiveGeneral, Spend: 6000},
		},
	}
	secondary := &domain.AdSet{
		Client: "ACME",
		Window: "7d",
		Ads: []domain.Ad{
			{Name: "winner", Spend: 300, Results: 12},
			{Name: "steady", Spend: 200, Results: 3},
		},
	}
	return primary, secondary
}

func TestEnrichPipelineOrder(t *testing.T) {
	e := testEngine()
	primary, secondary := enrichFixture()

	median := e.Enrich(primary, secondary)

	assert.Equal(t, median, primary.MedianCPA)
	assert.Greater(t, median, 0.0)

	for _, ad := range primary.Ads {
		// cpa defined iff score > 0, and exactly spend/score
		if ad.Score > 0 {
			require.NotNil(t, ad.CPA, "ad %s", ad.Name)
			assert.Equal(t, ad.Spend/ad.Score, *ad.CPA)
		} else {
			assert.Nil(t, ad.CPA, "ad %s", ad.Name)
		}
		// classification is never unset once the pipeline completes
		assert.NotEmpty(t, ad.Classification, "ad %s", ad.Name)
		assert.NotEmpty(t, ad.Efficiency, "ad %s", ad.Name)
		assert.NotEmpty(t, ad.Activity, "ad %s", ad.Name)
		assert.NotEmpty(t, ad.Trend, "ad %s", ad.Name)
	}

	// the burner has no conversions but heavy spend
	burner := primary.Ads[2]
	assert.Equal(t, domain.EfficiencyNoData, burner.Efficiency)
	assert.Equal(t, domain.ActivityInactive, burner.Activity)
	assert.Equal(t, domain.ClassDead, burner.Classification)
}

func TestEnrichWithoutSecondaryWindow(t *testing.T) {
	e := testEngine()
	primary, _ := enrichFixture()

	e.Enrich(primary, nil)

	for _, ad := range primary.Ads {
		assert.Equal(t, domain.ActivityNoData7D, ad.Activity)
		assert.Equal(t, domain.TrendNoData, ad.Trend)
		assert.Equal(t, 1.0, ad.TrendRatio)
	}
}

func TestEnrichEmptyCollection(t *testing.T) {
	e := testEngine()
	set := &domain.AdSet{Client: "EMPTY", Window: "30d"}
	median := e.Enrich(set, nil)
	assert.Equal(t, 0.0, median)
}

func TestEnrichDeterministic(t *testing.T) {
	e := testEngine()

	a30, a7 := enrichFixture()
	b30, b7 := enrichFixture()

	e.Enrich(a30, a7)
	e.Enrich(b30, b7)

	require.Equal(t, len(a30.Ads), len(b30.Ads))
	for i := range a30.Ads {
		assert.Equal(t, a30.Ads[i], b30.Ads[i])
	}

	// Re-running enrichment over already-enriched data converges to the
	// same output: no hidden state between runs.
	e.Enrich(a30, a7)
	for i := range a30.Ads {
		assert.Equal(t, b30.Ads[i], a30.Ads[i])
	}
}
