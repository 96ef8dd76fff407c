package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/meta-ads-monitor/internal/domain"
)

func TestClassifyHero(t *testing.T) {
	e := testEngine()
	ad := domain.Ad{
		Score100:   95,
		Efficiency: domain.EfficiencyVeryEfficient,
		Activity:   domain.ActivityActive,
		Trend:      domain.TrendStable,
	}
	assert.Equal(t, domain.ClassHero, e.Classify(&ad))
}

func TestClassifyHeroWinsOverHealthy(t *testing.T) {
	e := testEngine()
	// Meets both rule 1 and rule 2; rule order decides, not severity.
	ad := domain.Ad{
		Score100:   95,
		Efficiency: domain.EfficiencyEfficient,
		Activity:   domain.ActivityActive,
		Trend:      domain.TrendAscending,
	}
	assert.Equal(t, domain.ClassHero, e.Classify(&ad))
}

func TestClassifyHealthy(t *testing.T) {
	e := testEngine()
	ad := domain.Ad{
		Score100:   75,
		Efficiency: domain.EfficiencyNormal,
		Activity:   domain.ActivitySpending,
		Trend:      domain.TrendStable,
	}
	assert.Equal(t, domain.ClassHealthy, e.Classify(&ad))
}

func TestClassifyDead(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name string
		ad   domain.Ad
	}{
		{"inactive", domain.Ad{Activity: domain.ActivityInactive, Score100: 50}},
		{"critical trend", domain.Ad{Activity: domain.ActivityActive, Trend: domain.TrendCritical, Score100: 50}},
		{"burning budget", domain.Ad{Activity: domain.ActivitySpending, Score: 0, Spend: 5000, Score100: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, domain.ClassDead, e.Classify(&tt.ad))
		})
	}
}

func TestClassifyHealthyWinsOverDead(t *testing.T) {
	e := testEngine()
	// An inactive ad with a strong score and clean trend still reads
	// HEALTHY: rule 2 is evaluated before rule 3.
	ad := domain.Ad{
		Score100:   80,
		Efficiency: domain.EfficiencyEfficient,
		Activity:   domain.ActivityInactive,
		Trend:      domain.TrendStable,
	}
	assert.Equal(t, domain.ClassHealthy, e.Classify(&ad))
}

func TestClassifyAlertDefault(t *testing.T) {
	e := testEngine()
	ad := domain.Ad{
		Score100:   50,
		Efficiency: domain.EfficiencyNormal,
		Activity:   domain.ActivitySpending,
		Trend:      domain.TrendDeclining,
	}
	assert.Equal(t, domain.ClassAlert, e.Classify(&ad))
}
