package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordHooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(nil)

	m.OnStageStart(ctx, "dasha")
	m.OnStageComplete(ctx, "dasha", 3*time.Millisecond, nil)
	m.OnStageComplete(ctx, "dasha", time.Millisecond, errors.New("bad depth"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageErrors.WithLabelValues("dasha")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))

	m.OnCacheHit(ctx, "chart")
	m.OnCacheHit(ctx, "chart")
	m.OnCacheMiss(ctx, "yogas")
	m.OnCacheSet(ctx, "yogas", 512)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("chart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("yogas")))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.CacheBytes.WithLabelValues("yogas")))

	m.OnJobSubmitted(ctx, "a")
	m.OnJobFinished(ctx, "a", "complete", time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsFinished.WithLabelValues("complete")))

	m.OnRequest(ctx, "GET", "/health")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPInFlight))
	m.OnResponse(ctx, "GET", "/health", 200, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/health", "200")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(nil)
	m.OnCacheHit(context.Background(), "chart")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `jyotish_cache_hits_total{section="chart"} 1`)
}

func TestMetricsInstall(t *testing.T) {
	defer Reset()
	m := NewMetrics(nil)
	m.Install()

	assert.Same(t, m, Pipeline())
	assert.Same(t, m, Cache())
	assert.Same(t, m, Jobs())
	assert.Same(t, m, HTTP())
}
