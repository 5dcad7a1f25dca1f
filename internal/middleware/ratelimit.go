package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/roadwatch/highway-incident-api/pkg/errors"
	"github.com/roadwatch/highway-incident-api/pkg/response"
)

type limiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit throttles an endpoint per client IP using a fixed Redis window.
// A limiter failure fails open: abuse protection never takes the API down.
func RateLimit(repo limiter, requests int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if repo == nil || requests <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		count, err := repo.Hit(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(requests) {
			logger.Warn("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
