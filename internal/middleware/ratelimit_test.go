package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/cache"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
)

// fakeLimiter allows the first budget requests per IP.
type fakeLimiter struct {
	mu     sync.Mutex
	budget int
	seen   map[string]int
	err    error
}

func (f *fakeLimiter) CheckIPRateLimit(ctx context.Context, ip string, limit cache.Limit) (*cache.RateLimitResult, error) {
	if f.err != nil {
		return &cache.RateLimitResult{Allowed: true, Limit: limit.Burst}, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]int)
	}
	f.seen[ip]++

	remaining := f.budget - f.seen[ip]
	if remaining < 0 {
		return &cache.RateLimitResult{Limit: limit.Burst, RetryAfter: 2 * time.Second, ResetAt: time.Now()}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Limit: limit.Burst, Remaining: int64(remaining), ResetAt: time.Now()}, nil
}

func newRateLimitedHandler(limiter IPRateLimiter) http.Handler {
	cfg := RateLimitConfig{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: limiter,
		Limit:   cache.Limit{RPS: 1, Burst: 2},
	}
	return RateLimitIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitIP_RejectsAfterBudget(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(&fakeLimiter{budget: 2})

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1:5000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	// Same client on another port shares the bucket.
	rec := send("10.0.0.1:6000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", got)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "RATE_LIMITED" {
		t.Errorf("code = %s, want RATE_LIMITED", resp.Code)
	}

	if rec := send("10.0.0.2:5000"); rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", rec.Code)
	}
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(&fakeLimiter{err: errors.New("redis down")})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitIP_NilLimiter(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("disabled limiter must not set headers")
	}
}
