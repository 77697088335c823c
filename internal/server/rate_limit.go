package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	obscontext "github.com/ynmsafety/ynmops/internal/observability/context"
	"github.com/ynmsafety/ynmops/internal/observability/logger"
	"go.uber.org/zap"
)

// RateLimit admits requests per client IP through the injected limiter.
// Limiter failures fail open.
func (s *Server) RateLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := obscontext.WithClient(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		key := endpoint + ":" + obscontext.ClientFromContext(ctx)

		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			logger.FromContext(ctx).Warn("rate limit check failed", zap.String("endpoint", endpoint), zap.String("client", obscontext.ClientFromContext(ctx)), zap.Error(err))
			c.Next()
			return
		}
		s.obsMetrics.RecordRateLimit(ctx, endpoint, allowed)
		if !allowed {
			if window := int(s.cfg.RateLimit.Window.Seconds()); window > 0 {
				c.Header("Retry-After", strconv.Itoa(window))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
