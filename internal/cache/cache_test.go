package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/meta-ads-monitor/internal/analysis"
	"github.com/adscope/meta-ads-monitor/internal/report"
)

func testCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, 10*time.Minute), mr
}

func sampleReport() *report.Report {
	return &report.Report{
		RunID:   "run-1",
		Client:  "ACME",
		Summary: analysis.Summary{TotalSpend: 18000, TotalAds: 4},
	}
}

func TestPutGet(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, sampleReport()))

	got, err := c.Get(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 18000.0, got.Summary.TotalSpend)
}

func TestGetMiss(t *testing.T) {
	c, _ := testCache(t)
	_, err := c.Get(context.Background(), "NOBODY")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPutSetsTTL(t *testing.T) {
	c, mr := testCache(t)
	require.NoError(t, c.Put(context.Background(), sampleReport()))

	assert.Equal(t, 10*time.Minute, mr.TTL("adscope:report:ACME"))

	mr.FastForward(11 * time.Minute)
	_, err := c.Get(context.Background(), "ACME")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, sampleReport()))
	require.NoError(t, c.Invalidate(ctx, "ACME"))

	_, err := c.Get(ctx, "ACME")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPing(t *testing.T) {
	c, mr := testCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
