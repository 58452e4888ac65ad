package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET /api/clients", "GET", 200, time.Millisecond)
	m.Mutation("client", "created")
	m.VenueConflict()
	m.PublishFailed()
	m.Consumed(true)
	m.RegisterCacheStats("dashboard", func() (uint64, uint64) { return 0, 0 })
	if m.Registry() != nil {
		t.Fatal("nil metrics should have no registry")
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.Mutation("event", "created")
	m.Mutation("event", "created")
	m.Mutation("event", "deleted")
	m.VenueConflict()
	m.BudgetOverage()
	m.Consumed(false)
	m.RateLimited()
	m.RateLimited()

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("event", "created")); got != 2 {
		t.Errorf("mutations{event,created} = %v", got)
	}
	if got := testutil.ToFloat64(m.venueConflicts); got != 1 {
		t.Errorf("venue conflicts = %v", got)
	}
	if got := testutil.ToFloat64(m.budgetOverages); got != 1 {
		t.Errorf("overages = %v", got)
	}
	if got := testutil.ToFloat64(m.consumed.WithLabelValues("error")); got != 1 {
		t.Errorf("consumed{error} = %v", got)
	}
	if got := testutil.ToFloat64(m.security.WithLabelValues("rate_limited")); got != 2 {
		t.Errorf("security{rate_limited} = %v", got)
	}
}

func TestHandlerExposesCacheStats(t *testing.T) {
	m := New()
	m.RegisterCacheStats("dashboard", func() (uint64, uint64) { return 7, 3 })
	m.ObserveHTTP("", "GET", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`eventdesk_cache_hits_total{cache="dashboard"} 7`,
		`eventdesk_cache_misses_total{cache="dashboard"} 3`,
		`eventdesk_http_requests_total{code="404",method="GET",route="unmatched"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
