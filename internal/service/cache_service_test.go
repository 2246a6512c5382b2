package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceRoundTripAndMetrics(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, 0, zap.NewNop(), true)

	var out map[string]int
	assert.False(t, cache.Get(context.Background(), "recap:teacher:x", &out))

	cache.Set(context.Background(), "recap:teacher:x", map[string]int{"present": 3}, 0)
	cache.Set(context.Background(), "other:key", 1, time.Second)
	require.True(t, cache.Get(context.Background(), "recap:teacher:x", &out))
	assert.Equal(t, 3, out["present"])

	cache.InvalidateRecaps(context.Background())
	assert.Equal(t, []string{"other:key"}, repo.keys())

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
}

func TestCacheServiceDisabledAndFailuresAreSilent(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.False(t, nilCache.Get(context.Background(), "k", &struct{}{}))
	nilCache.InvalidateRecaps(context.Background())

	repo := newMemoryCacheRepo()
	disabled := NewCacheService(repo, nil, time.Minute, nil, false)
	disabled.Set(context.Background(), "recap:k", 1, 0)
	assert.Empty(t, repo.keys())

	broken := NewCacheService(brokenCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	var out int
	assert.False(t, broken.Get(context.Background(), "recap:k", &out))
	broken.Set(context.Background(), "recap:k", 1, 0)
	broken.InvalidateRecaps(context.Background())
}

func TestMetricsServiceHandlerAndCounters(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/recap/teachers", http.StatusOK, 20*time.Millisecond)
	metrics.ObserveRecap("teacher", 12, 3*time.Millisecond)
	metrics.RecordCheckIn(true)
	metrics.RecordCheckIn(false)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.Equal(t, uint64(1), snap.RecapsComputed)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `teacher_check_ins_total{outcome="duplicate"} 1`)
	assert.Contains(t, rec.Body.String(), `recap_persons{kind="teacher"} 12`)

	var nilMetrics *MetricsService
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
