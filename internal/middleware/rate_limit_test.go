package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arusops/arus/internal/ratelimit"
	pkghttp "github.com/arusops/arus/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitByOperation(t *testing.T) {
	limiter := ratelimit.NewLimiter(2, time.Minute)
	handler := RateLimitByOperation(limiter, "login", &pkghttp.IPConfig{})(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Too many attempts. Please try again later.", resp.Error)
}

func TestRateLimitByOperation_IndependentBucketsPerIP(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	handler := RateLimitByOperation(limiter, "login", &pkghttp.IPConfig{})(okHandler())

	first := httptest.NewRequest("POST", "/auth/login", nil)
	first.RemoteAddr = "203.0.113.7:51000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	blocked := httptest.NewRequest("POST", "/auth/login", nil)
	blocked.RemoteAddr = "203.0.113.7:51001"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, blocked)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "same IP on a new port shares the bucket")

	other := httptest.NewRequest("POST", "/auth/login", nil)
	other.RemoteAddr = "198.51.100.3:51000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code, "a different IP drains its own bucket")
}

func TestRateLimitByOperation_OperationsIsolated(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	loginHandler := RateLimitByOperation(limiter, "login", &pkghttp.IPConfig{})(okHandler())
	registerHandler := RateLimitByOperation(limiter, "register", &pkghttp.IPConfig{})(okHandler())

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	w := httptest.NewRecorder()
	loginHandler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("POST", "/auth/register", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	w = httptest.NewRecorder()
	registerHandler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "register drains a separate bucket from login")
}
