package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/http/perf"
)

// DefaultSlowRequestMs applies when no threshold is configured.
const DefaultSlowRequestMs = 200

// Timing logs each request and records it in collector (if non-nil) under its
// route pattern, so "/events/{id}" is one dashboard row however many events exist.
// Requests under /static/ are skipped. slowMs <= 0 uses DefaultSlowRequestMs.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			// deferred so a panicking handler is still counted
			defer func() {
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := r.Method + " " + routePattern(r)

				ev, msg := log.Debug(), "request"
				if ms >= threshold {
					ev, msg = log.Warn(), "slow_request"
				}
				ev.Str("request_id", chimw.GetReqID(r.Context())).
					Str("route", route).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Float64("duration_ms", ms).
					Msg(msg)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: status,
						DurationMs: ms,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern is the matched chi pattern, or the raw path outside a chi router.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
