package telemetry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollectorCountsFetches(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	collector.ObserveFetch("customers", OutcomeSuccess, 20*time.Millisecond)
	collector.ObserveFetch("customers", OutcomeError, 5*time.Second)
	collector.IncDeduplicated("customers")
	collector.IncSuperseded("salesData")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.fetches.WithLabelValues("customers", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.fetches.WithLabelValues("customers", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.deduplicated.WithLabelValues("customers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.superseded.WithLabelValues("salesData")))
}

func TestNewPrometheusCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	second, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	first.IncDeduplicated("trend")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.deduplicated.WithLabelValues("trend")))
}

func TestServeExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	collector.IncSuperseded("salesData")

	ctx, cancel := context.WithCancel(context.Background())
	addr, errCh, err := Serve(ctx, "127.0.0.1:0", reg)
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `nebuloviz_query_superseded_total{query="salesData"} 1`))

	cancel()
	require.NoError(t, <-errCh)
}
