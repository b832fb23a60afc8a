package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/apperror"
	"asperro-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://www.asperrostudio.cz"))
	r.POST("/api/contact", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "https://www.asperrostudio.cz", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSMiddlewareIgnoresRequestOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://www.asperrostudio.cz"))
	r.POST("/api/contact", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://www.asperrostudio.cz", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagates(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		fromCtx = domain.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-chosen")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	header := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, header)
	assert.NotEqual(t, "client-chosen", header)
	assert.Equal(t, header, fromCtx)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.InvalidEmail("Zadejte prosím platnou emailovou adresu.")) })
	r.GET("/raw", func(c *gin.Context) { c.Error(assert.AnError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Zadejte prosím platnou emailovou adresu."}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Došlo k chybě serveru. Zkuste to prosím později."}`, w.Body.String())
}

func TestMemoryStoreWindow(t *testing.T) {
	store := &memoryStore{}
	cfg := RateLimitConfig{Limit: 2, Window: time.Minute}
	now := time.Now()

	count, resetAt := store.check("ip", cfg, now)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(time.Minute), resetAt)

	count, _ = store.check("ip", cfg, now.Add(time.Second))
	assert.Equal(t, 2, count)

	count, _ = store.check("other", cfg, now)
	assert.Equal(t, 1, count)

	count, resetAt = store.check("ip", cfg, now.Add(2*time.Minute))
	assert.Equal(t, 1, count, "counter resets after the window")
	assert.Equal(t, now.Add(3*time.Minute), resetAt)
}

func TestRateLimitSkipsNonPost(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(RateLimitConfig{
		Limit:   1,
		Window:  time.Minute,
		KeyFunc: func(c *gin.Context) string { return c.ClientIP() },
	}))
	r.Any("/api/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitEmitsSecurityEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := security.DefaultLogger()
	security.SetDefaultLogger(security.NewSecurityLogger(zap.New(core), "asperro-contact", "test"))
	defer security.SetDefaultLogger(prev)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RateLimitMiddleware(RateLimitConfig{
		Limit:   1,
		Window:  time.Minute,
		KeyFunc: func(c *gin.Context) string { return c.ClientIP() },
	}))
	r.POST("/api/contact", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	}

	events := logs.FilterMessage("rate_limit_triggered").All()
	if assert.Len(t, events, 1) {
		fields := events[0].ContextMap()
		assert.JSONEq(t, `{"endpoint":"/api/contact"}`, fields["details"].(string))
		assert.NotEmpty(t, fields["request_id"])
		assert.Equal(t, security.HashValue("192.0.2.1"), fields["subject_value"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
