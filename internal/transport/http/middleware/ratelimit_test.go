package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSensitiveRateScope(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   sensitiveScope
	}{
		{http.MethodPost, "/api/v1/auth/login", sensitiveScopeAuth},
		{http.MethodGet, "/api/v1/auth/login", sensitiveScopeNone},
		{http.MethodPost, "/api/v1/appraisal/maintenance/fix-managers", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/appraisal/maintenance/recalculate-ratings", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/appraisal/cycles/c1/provision", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/appraisal/cycles", sensitiveScopeNone},
		{http.MethodPut, "/api/v1/appraisal/appraisals/a1/fields", sensitiveScopeNone},
		{http.MethodGet, "/api/v1/appraisal/cycles/c1/provision", sensitiveScopeNone},
	}

	for _, tc := range tests {
		r := httptest.NewRequest(tc.method, tc.path, nil)
		if got := sensitiveRateScope(r); got != tc.want {
			t.Fatalf("sensitiveRateScope(%s %s) = %q, want %q", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestNormalizedAPIPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/auth/login", "/auth/login"},
		{"/auth/login", "/auth/login"},
		{"/api/v1", "/"},
		{"", "/"},
	}
	for _, tc := range tests {
		if got := normalizedAPIPath(tc.in); got != tc.want {
			t.Fatalf("normalizedAPIPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appraisal/appraisals", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	rec := send("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 response missing Retry-After header")
	}

	// Another client keeps its own budget.
	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", rec.Code)
	}
}

func TestSensitiveMutationRateLimitThrottlesLoginByEmail(t *testing.T) {
	// base 4 -> auth limit 1: the second attempt for the same email is
	// rejected even from a different address.
	handler := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"hr@example.com","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("first login status = %d, want 200", rec.Code)
	}
	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second login for same email status = %d, want 429", rec.Code)
	}
}

func TestSensitiveMutationRateLimitIgnoresPlainReads(t *testing.T) {
	handler := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/appraisal/cycles", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("read %d status = %d, want 200", i+1, rec.Code)
		}
	}
}
