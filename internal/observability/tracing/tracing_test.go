package tracing

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestSafeAttributes(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/orders"),
		attribute.String("user.phone", "9876543210"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeError(t *testing.T) {
	base := errors.New("inner")
	safe := SafeError(fmt.Errorf("outer: %w", base))
	assert.EqualError(t, safe, "outer: inner")
	assert.False(t, errors.Is(safe, base))
	assert.Nil(t, SafeError(nil))
}

func TestGinMiddlewareWithDisabledProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := NewProvider(nil, Config{ServiceName: "ynmops"}, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware())
	var sampled bool
	r.GET("/ping", func(c *gin.Context) {
		sampled = trace.SpanFromContext(c.Request.Context()).SpanContext().IsSampled()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, sampled)
}
