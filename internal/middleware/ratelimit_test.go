package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limited := RateLimit(client, 3, time.Minute)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		resp := httptest.NewRecorder()
		limited.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limited := RateLimit(client, 2, time.Minute)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		resp := httptest.NewRecorder()
		limited.ServeHTTP(resp, req)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	resp := httptest.NewRecorder()
	limited.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
}

func TestRateLimitSeparatesClients(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limited := RateLimit(client, 1, time.Minute)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	first.RemoteAddr = "10.0.0.1:5000"
	resp := httptest.NewRecorder()
	limited.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	second.RemoteAddr = "10.0.0.2:5000"
	resp = httptest.NewRecorder()
	limited.ServeHTTP(resp, second)
	if resp.Code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", resp.Code)
	}
}

func TestRateLimitWindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limited := RateLimit(client, 1, time.Second)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	resp := httptest.NewRecorder()
	limited.ServeHTTP(resp, req)

	resp = httptest.NewRecorder()
	limited.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside window, got %d", resp.Code)
	}

	mr.FastForward(2 * time.Second)

	resp = httptest.NewRecorder()
	limited.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after window expiry, got %d", resp.Code)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	limited := RateLimit(client, 1, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	resp := httptest.NewRecorder()
	limited.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("limiter must fail open, got %d", resp.Code)
	}
}
