package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over limit was allowed")
	}
}

func TestAllowIsPerClient(t *testing.T) {
	l := NewLimiter(1)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second client denied by first client's window")
	}
	if l.ActiveClients() != 2 {
		t.Errorf("ActiveClients = %d, want 2", l.ActiveClients())
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewLimiter(1)
	defer l.Stop()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(1)
	l.Stop()
	l.Stop()
}
