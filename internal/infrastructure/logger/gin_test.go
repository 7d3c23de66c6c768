package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	engine := gin.New()
	engine.Use(GinMiddleware(log))
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, zap.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "verbose=1", fields["query"])
}

func TestGinMiddlewareWarnsOnClientError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	engine := gin.New()
	engine.Use(GinMiddleware(log))
	engine.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestRecoveryRespondsWithError(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(zap.NewNop()))
	engine.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, w.Body.String())
}

func TestFromGin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, FromGin(c))

	log := zap.NewNop()
	c.Set("logger", log)
	assert.Same(t, log, FromGin(c))
}

func TestFromGinFallsBackToRequestContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	log := zap.NewNop()
	c.Request = req.WithContext(WithContext(req.Context(), log))
	assert.Same(t, log, FromGin(c))
}

func TestGinMiddlewareAttachesRequestContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	var ctxID string
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	engine.Use(GinMiddleware(log))
	engine.GET("/ping", func(c *gin.Context) {
		ctxID = RequestID(c.Request.Context())
		FromContext(c.Request.Context()).Info("inside handler")
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-123", ctxID)

	require.GreaterOrEqual(t, logs.Len(), 1)
	entry := logs.All()[0]
	assert.Equal(t, "inside handler", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "/ping", fields["path"])
}
