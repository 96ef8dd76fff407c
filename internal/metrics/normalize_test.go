package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/meta-ads-monitor/internal/domain"
)

func TestNormalizePassBestAdScoresHundred(t *testing.T) {
	e := testEngine()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "best", Objective: domain.ObjectiveGeneral, Results: 40, MsgInit: 20},
		{Name: "mid", Objective: domain.ObjectiveGeneral, Results: 20, MsgInit: 10},
		{Name: "weak", Objective: domain.ObjectiveGeneral, Results: 1},
	}}

	e.NormalizePass(set)

	max := 0.0
	for _, ad := range set.Ads {
		assert.GreaterOrEqual(t, ad.Score100, 0.0)
		assert.LessOrEqual(t, ad.Score100, 100.0)
		if ad.Score100 > max {
			max = ad.Score100
		}
	}
	assert.InDelta(t, 100.0, max, 1e-9)
	assert.Equal(t, 100.0, set.Ads[0].Score100)
	assert.Greater(t, set.Ads[1].Score100, set.Ads[2].Score100)
}

func TestNormalizePassAllZeroStaysZero(t *testing.T) {
	e := testEngine()
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "a", Objective: domain.ObjectiveGeneral},
		{Name: "b", Objective: domain.ObjectiveGeneral},
	}}

	e.NormalizePass(set)

	for _, ad := range set.Ads {
		assert.Equal(t, 0.0, ad.Score100)
	}
}

func TestNormalizePassInvertsCostMetrics(t *testing.T) {
	e := testEngine()
	// Traffic profile weighs cpc at 0.20, inverted: the cheaper click
	// wins that component.
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "cheap", Objective: domain.ObjectiveTraffic, LinkClicks: 100, CPC: 5},
		{Name: "pricey", Objective: domain.ObjectiveTraffic, LinkClicks: 100, CPC: 50},
	}}

	e.NormalizePass(set)

	assert.Greater(t, set.Ads[0].Score100, set.Ads[1].Score100)
	assert.Equal(t, 100.0, set.Ads[0].Score100)
}

func TestNormalizePassEmptySet(t *testing.T) {
	e := testEngine()
	e.NormalizePass(&domain.AdSet{})
	e.NormalizePass(nil)
}

func TestNormalizePassPerObjectiveProfiles(t *testing.T) {
	e := testEngine()
	// Same counters, different objectives: the messaging profile weighs
	// msg_init far above link_clicks, the traffic profile the reverse.
	set := &domain.AdSet{Ads: []domain.Ad{
		{Name: "messenger", Objective: domain.ObjectiveMessaging, MsgInit: 50, LinkClicks: 10},
		{Name: "clicker", Objective: domain.ObjectiveTraffic, MsgInit: 10, LinkClicks: 50},
	}}

	e.NormalizePass(set)

	assert.Greater(t, set.Ads[0].Score100, 0.0)
	assert.Greater(t, set.Ads[1].Score100, 0.0)
}
