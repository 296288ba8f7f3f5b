package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
	hits     map[string]int
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func (f *fakeRecorder) RecordRateLimitHit(scope string) {
	if f.hits == nil {
		f.hits = map[string]int{}
	}
	f.hits[scope]++
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(logger.NewNoopLogger()))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := perform(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var seen interface{}
	router.GET("/", func(c *gin.Context) {
		seen = c.Request.Context().Value(constants.ContextKeyRequestID)
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/", map[string]string{constants.HeaderRequestID: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "req-42", seen)

	w = perform(router, http.MethodGet, "/", nil)
	assert.Len(t, w.Header().Get(constants.HeaderRequestID), 36)
}

func TestObservability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &fakeRecorder{}
	router := gin.New()
	router.Use(Observability(noop.NewTracerProvider().Tracer("test"), rec))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(router, http.MethodGet, "/items/7", nil)
	perform(router, http.MethodGet, "/missing", nil)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{method: "GET", route: "/items/:id", status: 200}, rec.requests[0])
	assert.Equal(t, recordedRequest{method: "GET", route: "not_found", status: 404}, rec.requests[1])
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(cfg *config.RateLimitConfig, rec *fakeRecorder) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(NewRateLimiter(cfg.DefaultRPM, cfg.BurstSize), cfg, rec, logger.NewNoopLogger()))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("denies requests over the burst", func(t *testing.T) {
		rec := &fakeRecorder{}
		router := newRouter(&config.RateLimitConfig{Enabled: true, DefaultRPM: 1, BurstSize: 2}, rec)

		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/", nil).Code)
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/", nil).Code)
		w := perform(router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
		assert.Equal(t, 1, rec.hits[rateLimitScopeClient])
	})

	t.Run("disabled limiter lets everything through", func(t *testing.T) {
		router := newRouter(&config.RateLimitConfig{Enabled: false, DefaultRPM: 1, BurstSize: 1}, &fakeRecorder{})
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/", nil).Code)
		}
	})
}

func TestRateLimiter_Refill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
	assert.Equal(t, 2, rl.buckets.ItemCount())
}

func TestRateLimiter_IdleBucketsExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, 50*time.Millisecond)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// the bucket is dropped once idle, so the client starts over with a full burst
	time.Sleep(100 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_ActiveBucketsSlide(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, 200*time.Millisecond)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		assert.False(t, rl.Allow("a"), "bucket of an active client must be kept")
	}
}
