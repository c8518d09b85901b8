package middleware

import (
	"math"

	"github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"
	"github.com/haierkeys/microdoc-service/pkg/limiter"
	"github.com/haierkeys/microdoc-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var rateLimitRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "microdoc",
	Name:      "rate_limit_rejected_total",
	Help:      "Requests rejected by a rate limiter.",
}, []string{"limiter"})

// RateLimiter creates route bucket rate limiting middleware (supports dependency injection)
// RateLimiter 创建路由级限流中间件（支持依赖注入）
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				rateLimitRejected.WithLabelValues("route").Inc()
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests.WithRetryAfter(1))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// ClientRateLimiter limits calls per client address through the injected limiter.
// A failing limiter backend lets the request through and is logged.
// ClientRateLimiter 按客户端地址限流
func ClientRateLimiter(l limiter.Limiter, lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := app.GetRequestIP(c)

		res, err := l.Check(c.Request.Context(), ip)
		if err != nil {
			lg.Warn("rate limiter check failed", zap.String(logger.FieldClientIP, ip), zap.Error(err))
			c.Next()
			return
		}

		if !res.Allowed {
			rateLimitRejected.WithLabelValues("client").Inc()
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			response := app.NewResponse(c)
			response.ToResponse(code.ErrorTooManyRequests.WithRetryAfter(seconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
