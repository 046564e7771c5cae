package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feeder-fund-calc/internal/waterfall"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTimer(t *testing.T) {
	r := NewRegistry()

	res := &waterfall.Result{
		Ledger:  make([]waterfall.LedgerRow, 3),
		Skipped: []waterfall.SkippedPeriod{{Reason: "unparseable return"}},
	}
	r.StartRun("accrue_and_crystallize").Stop(res, nil)
	r.StartRun("accrue_and_crystallize").Stop(nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsTotal.WithLabelValues("accrue_and_crystallize", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunsTotal.WithLabelValues("accrue_and_crystallize", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.PeriodsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PeriodsSkipped.WithLabelValues("unparseable return")))

	var nilTimer *RunTimer
	assert.NotPanics(t, func() { nilTimer.Stop(res, nil) })
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)
	r.CachedRuns.Set(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fundfee_http_request_duration_seconds"))
	assert.Contains(t, body, "fundfee_cached_runs 2")
}
