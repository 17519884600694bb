package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "from-proxy")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "from-proxy", seen)
}

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tm.GenerateToken("pmo")
	require.NoError(t, err)

	var subject string
	h := JWTMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "pmo", subject)
}

func TestJWTMiddleware_DisabledWithoutManager(t *testing.T) {
	rec := httptest.NewRecorder()
	JWTMiddleware(nil)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, TTL: time.Minute})
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	other := httptest.NewRequest("GET", "/", nil)
	other.Header.Set("X-Real-IP", "10.0.0.2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var out bytes.Buffer
	ring := logging.NewRingBuffer(10)
	logger := logging.NewLogger(logging.Config{Format: "json", Output: &out, Ring: ring})

	h := RequestID(RequestLogger(logger)(RecoveryLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/gantt?team=Platform", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entries := ring.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Equal(t, "http request", entries[1].Message)
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.Equal(t, "team=Platform", entries[1].Attrs["query"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), entries[1].Attrs["request_id"])
}
