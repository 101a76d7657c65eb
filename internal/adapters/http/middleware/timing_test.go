package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/adapters/http/perf"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestTiming_RecordsRequest(t *testing.T) {
	collector := perf.NewCollector(1)
	h := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := serve(h, http.MethodPost, "/api/events")
	assert.Equal(t, http.StatusCreated, rr.Code)

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, "POST /api/events", snap.SlowestPaths[0].Path)
	assert.GreaterOrEqual(t, snap.SlowestPaths[0].AvgMs, 0.0)
}

func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(10)
	h := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := serve(h, http.MethodGet, "/static/site.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, collector.TotalRecorded())
}

func TestTiming_NilCollector(t *testing.T) {
	h := Timing(nil, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "/").Code)
}

func TestTiming_CountsServerErrors(t *testing.T) {
	collector := perf.NewCollector(10)
	h := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	serve(h, http.MethodGet, "/api/campaigns")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	assert.Equal(t, 1, snap.ServerErrors)
}

func TestTiming_StatusIsPerRequest(t *testing.T) {
	collector := perf.NewCollector(10)
	fail := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ok := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	serve(fail, http.MethodGet, "/fail")
	serve(ok, http.MethodGet, "/ok")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	assert.Equal(t, 1, snap.ServerErrors)
}

func TestTiming_GroupsByRoutePattern(t *testing.T) {
	collector := perf.NewCollector(10)
	r := chi.NewRouter()
	r.Use(Timing(collector, 0))
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {})

	serve(r, http.MethodGet, "/events/ev-1")
	serve(r, http.MethodGet, "/events/ev-2")

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, "GET /events/{id}", snap.SlowestPaths[0].Path)
	assert.Equal(t, 2, snap.SlowestPaths[0].Count)
}

func TestTiming_PanicStillRecords(t *testing.T) {
	collector := perf.NewCollector(10)
	h := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	assert.Panics(t, func() { serve(h, http.MethodGet, "/api/panic") })
	assert.EqualValues(t, 1, collector.TotalRecorded())
}

func TestTiming_SlowRequestLogsWarn(t *testing.T) {
	buf := captureLog(t)
	h := Timing(nil, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))
	serve(h, http.MethodGet, "/slow")

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slow_request")
}

func TestTiming_FastRequestLogsDebug(t *testing.T) {
	buf := captureLog(t)
	h := Timing(nil, 10_000)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serve(h, http.MethodGet, "/fast")

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.NotContains(t, buf.String(), "slow_request")
}

func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	h := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/bench", nil)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
