package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reconciler/internal/core/application/usecases/commands"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRun(t *testing.T) {
	m := metrics.New()
	finishedAt := time.Unix(1704448800, 0)

	report := commands.Report{RunID: kernel.NewRunID(), Providers: []commands.ProviderReport{
		{Provider: "acs", Eligible: 6, Updated: 3, Unavailable: 2, Unchanged: 1, CODConfirmed: 4},
		{Provider: "geniki", EligibleReadFailed: true},
	}}

	m.ObserveRun(report, 2*time.Second, finishedAt)

	assert.InDelta(t, 3, testutil.ToFloat64(m.OrdersProcessed.WithLabelValues("acs", metrics.ResultUpdated)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.OrdersProcessed.WithLabelValues("acs", metrics.ResultUnavailable)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OrdersProcessed.WithLabelValues("acs", metrics.ResultUnchanged)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.CODConfirmed.WithLabelValues("acs")), 0)
	assert.InDelta(t, float64(finishedAt.Unix()), testutil.ToFloat64(m.LastRunSuccess), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestMetrics_ObserveRun_StoreUnreachableKeepsLastSuccess(t *testing.T) {
	m := metrics.New()

	report := commands.Report{RunID: kernel.NewRunID(), Providers: []commands.ProviderReport{
		{Provider: "acs", EligibleReadFailed: true},
	}}

	m.ObserveRun(report, time.Second, time.Now())

	assert.InDelta(t, 0, testutil.ToFloat64(m.LastRunSuccess), 0)
}

func TestMetrics_ObserveProviderRequest(t *testing.T) {
	m := metrics.New()

	m.ObserveProviderRequest("geniki", "ok")
	m.ObserveProviderRequest("geniki", "ok")
	m.ObserveProviderRequest("geniki", "error")

	assert.InDelta(t, 2, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("geniki", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("geniki", "error")), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveProviderRequest("acs", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `reconciler_provider_requests_total{provider="acs",result="ok"} 1`)
}

func TestMetrics_Push(t *testing.T) {
	var pushedPath string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	m := metrics.New()
	m.ObserveProviderRequest("acs", "ok")

	require.NoError(t, m.Push(t.Context(), gateway.URL, "reconciler"))
	assert.Equal(t, "/metrics/job/reconciler", pushedPath)
}
