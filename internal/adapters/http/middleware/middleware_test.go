package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"), "refill is capped at rate")
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Second)
	rl.now = func() time.Time { return now }
	rl.Allow("a")
	now = now.Add(time.Minute)
	rl.Allow("b")

	now = now.Add(visitorIdle - time.Second)
	rl.evictIdle()
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(5, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rl.Run(ctx, time.Millisecond)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	wg.Wait()
}

func TestRateLimit_Returns429(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	req.RemoteAddr = "10.0.0.1:6666"
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code, "port changes do not reset the bucket")
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "https://www.youtube-nocookie.com")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestCSRF_JSONExemptFormRejected(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	h := CSRF(key, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	jsonReq := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{}`))
	jsonReq.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, jsonReq)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	formReq := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader("email=a%40b.org"))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, formReq)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	bearerReq := httptest.NewRequest(http.MethodDelete, "/api/events/e1", nil)
	bearerReq.Header.Set("Authorization", "Bearer abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, bearerReq)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, getReq)
	assert.Equal(t, http.StatusAccepted, rr.Code)
}
