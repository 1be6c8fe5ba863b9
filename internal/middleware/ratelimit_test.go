package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 3)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want %d", i, rec.Code, http.StatusOK)
		}
	}

	// Burst exhausted, next request is rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit request: got %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 1)
	defer rl.Stop()
	h := rl.Middleware(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:2", "10.0.0.3:3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("client %s: got %d, want %d", addr, rec.Code, http.StatusOK)
		}
	}
}

func TestClientIPHeaders(t *testing.T) {
	cases := []struct {
		name string
		set  func(r *http.Request)
		want string
	}{
		{
			"x-forwarded-for single",
			func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.5") },
			"203.0.113.5",
		},
		{
			"x-forwarded-for chain takes first",
			func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1") },
			"203.0.113.5",
		},
		{
			"x-real-ip",
			func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.7") },
			"198.51.100.7",
		},
		{
			"remote addr fallback",
			func(r *http.Request) {},
			"192.0.2.1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			tc.set(req)
			if got := clientIP(req); got != tc.want {
				t.Errorf("clientIP: got %q, want %q", got, tc.want)
			}
		})
	}
}
