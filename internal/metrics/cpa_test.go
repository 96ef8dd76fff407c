package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
)

func testEngine() *Engine {
	return NewEngine(config.Default())
}

func adWithCPA(name string, spend, score float64) domain.Ad {
	ad := domain.Ad{Name: name, Spend: spend, Score: score}
	ad.CPA = ComputeCPA(&ad)
	return ad
}

func TestComputeCPA(t *testing.T) {
	ad := domain.Ad{Spend: 500, Score: 10}
	cpa := ComputeCPA(&ad)
	require.NotNil(t, cpa)
	assert.Equal(t, 50.0, *cpa)
}

func TestComputeCPAUndefinedWithoutConversions(t *testing.T) {
	// No conversions means no CPA, not a zero CPA. A zero here would
	// corrupt the account median.
	ad := domain.Ad{Spend: 5000, Score: 0}
	assert.Nil(t, ComputeCPA(&ad))
}

func TestMedianCPA(t *testing.T) {
	set := &domain.AdSet{Ads: []domain.Ad{
		adWithCPA("a", 100, 1),
		adWithCPA("b", 200, 1),
		adWithCPA("c", 300, 1),
	}}
	assert.Equal(t, 200.0, MedianCPA(set))
}

func TestMedianCPAEvenCount(t *testing.T) {
	set := &domain.AdSet{Ads: []domain.Ad{
		adWithCPA("a", 100, 1),
		adWithCPA("b", 300, 1),
	}}
	assert.Equal(t, 200.0, MedianCPA(set))
}

func TestMedianCPAIgnoresUndefined(t *testing.T) {
	set := &domain.AdSet{Ads: []domain.Ad{
		adWithCPA("a", 100, 1),
		adWithCPA("no-conv-1", 9000, 0),
		adWithCPA("no-conv-2", 7000, 0),
	}}
	assert.Equal(t, 100.0, MedianCPA(set))
}

func TestMedianCPAEmptySet(t *testing.T) {
	assert.Equal(t, 0.0, MedianCPA(&domain.AdSet{}))

	onlyUndefined := &domain.AdSet{Ads: []domain.Ad{
		adWithCPA("a", 5000, 0),
	}}
	assert.Equal(t, 0.0, MedianCPA(onlyUndefined))
}

func TestGradeEfficiency(t *testing.T) {
	e := testEngine()
	median := 200.0

	tests := []struct {
		name string
		cpa  float64
		want domain.EfficiencyTier
	}{
		{"well below median", 100, domain.EfficiencyVeryEfficient},
		{"exactly 70 percent", 140, domain.EfficiencyVeryEfficient}, // boundary inclusive
		{"at median", 200, domain.EfficiencyEfficient},
		{"exactly 150 percent", 300, domain.EfficiencyNormal},
		{"above 150 percent", 301, domain.EfficiencyExpensive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := adWithCPA("x", tt.cpa, 1)
			assert.Equal(t, tt.want, e.GradeEfficiency(&ad, median))
		})
	}
}

func TestGradeEfficiencyMonotonic(t *testing.T) {
	e := testEngine()
	median := 100.0

	rank := map[domain.EfficiencyTier]int{
		domain.EfficiencyVeryEfficient: 0,
		domain.EfficiencyEfficient:     1,
		domain.EfficiencyNormal:        2,
		domain.EfficiencyExpensive:     3,
	}

	prev := -1
	for cpa := 10.0; cpa <= 400; cpa += 10 {
		ad := adWithCPA("x", cpa, 1)
		tier := e.GradeEfficiency(&ad, median)
		cur, ok := rank[tier]
		require.True(t, ok, "unexpected tier %s", tier)
		assert.GreaterOrEqual(t, cur, prev, "tier regressed at cpa=%v", cpa)
		prev = cur
	}
}

func TestGradeEfficiencyNoData(t *testing.T) {
	e := testEngine()
	ad := adWithCPA("x", 5000, 0)
	assert.Equal(t, domain.EfficiencyNoData, e.GradeEfficiency(&ad, 200))
}

func TestGradeEfficiencyZeroMedianFallsBackToNormal(t *testing.T) {
	e := testEngine()
	ad := adWithCPA("x", 100, 1)
	assert.Equal(t, domain.EfficiencyNormal, e.GradeEfficiency(&ad, 0))
}
