package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndGauge(t *testing.T) {
	r := New()

	c := r.Counter("directory_loads_total", "Completed load operations.")
	c.Inc()
	c.Add(2)
	if got := r.Counter("directory_loads_total", "").Value(); got != 3 {
		t.Fatalf("counter = %d, want 3", got)
	}

	g := r.Gauge("directory_employees_loaded", "Employees in the live directory.")
	g.Set(40)
	g.Inc()
	g.Dec()
	if got := g.Value(); got != 40 {
		t.Fatalf("gauge = %d, want 40", got)
	}
}

func TestRender_TextFormat(t *testing.T) {
	r := New()
	r.Counter("directory_queries_total", "Queries answered.").Inc()
	r.Gauge("directory_employees_loaded", "").Set(5)

	h := r.Histogram("embed_latency_seconds", "Embedding round-trip latency.")
	h.Observe(0.02)
	h.Observe(0.02)
	h.Observe(7)

	out := r.Render()
	for _, want := range []string{
		"# HELP directory_queries_total Queries answered.",
		"# TYPE directory_queries_total counter",
		"directory_queries_total 1",
		"directory_employees_loaded 5",
		"# TYPE embed_latency_seconds histogram",
		`embed_latency_seconds_bucket{le="0.025"} 2`,
		`embed_latency_seconds_bucket{le="10"} 3`,
		`embed_latency_seconds_bucket{le="+Inf"} 3`,
		"embed_latency_seconds_count 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRender_BucketsAreCumulative(t *testing.T) {
	r := New()
	h := r.Histogram("search_latency_seconds", "")
	h.Observe(0.005)
	h.Observe(0.3)

	out := r.Render()
	if !strings.Contains(out, `search_latency_seconds_bucket{le="0.5"} 2`) {
		t.Fatalf("le=0.5 bucket should accumulate earlier observations:\n%s", out)
	}
}

func TestRegistrationIsIdempotent(t *testing.T) {
	r := New()
	a := r.Counter("x_total", "")
	b := r.Counter("x_total", "different help ignored")
	if a != b {
		t.Fatal("same name must return the same counter")
	}
	if n := strings.Count(r.Render(), "# TYPE x_total"); n != 1 {
		t.Fatalf("metric rendered %d times, want 1", n)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("directory_loads_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "directory_loads_total 1") {
		t.Fatalf("body missing counter:\n%s", rec.Body.String())
	}
}
