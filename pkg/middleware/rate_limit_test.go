package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/spilno/spilno-backend/pkg/metrics"
)

// The in-memory limiter keys by client IP, and its buckets survive across
// tests. Each test uses its own RemoteAddr to get fresh buckets.
func reqFrom(addr, path string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, reqFrom("10.1.0.1:1234", "/ok"))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, reqFrom("10.1.0.1:1234", "/ok"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)

	after := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, 2.0, after-before)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))

	// first request -> allowed
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, reqFrom("10.1.0.2:1234", "/limited"))
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request -> should be rate-limited
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, reqFrom("10.1.0.2:1234", "/limited"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	after := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	require.Equal(t, 1.0, after-before)

	// at 0.5 rps one token replenishes every two seconds
	time.Sleep(2100 * time.Millisecond)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, reqFrom("10.1.0.2:1234", "/limited"))
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	r := gin.New()
	// middleware that injects claims before rate limiter
	r.Use(func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"uid": "user-123"})
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request allowed
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, reqFrom("10.1.0.3:1234", "/u"))
	require.Equal(t, http.StatusOK, w1.Code)

	// second request from a different IP but the same subject -> rejected
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, reqFrom("10.1.0.4:1234", "/u"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
}
