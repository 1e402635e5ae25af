package middleware

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/redis/go-redis/v9"
  "github.com/pdmlab/catalog-backend/internal/logger"
)

type RateLimitMiddleware struct {
  log    *logger.Logger
  client *redis.Client
  period time.Duration
  limit  int64
}

func NewRateLimitMiddleware(log *logger.Logger, client *redis.Client, period time.Duration, limit int64) *RateLimitMiddleware {
  middlewareLogger := log.With("middleware", "RateLimitMiddleware")
  return &RateLimitMiddleware{log: middlewareLogger, client: client, period: period, limit: limit}
}

// Limit caps attempts per client IP over the configured window. With no
// redis client, or when redis is unreachable, requests pass through.
func (rlm *RateLimitMiddleware) Limit() gin.HandlerFunc {
  return func(c *gin.Context) {
    if rlm.client == nil {
      c.Next()
      return
    }

    key := "rate_limit:" + c.ClientIP()
    count, err := rlm.client.Incr(c.Request.Context(), key).Result()
    if err != nil {
      rlm.log.Warn("rate limit check failed", "error", err)
      c.Next()
      return
    }
    if count == 1 {
      rlm.client.Expire(c.Request.Context(), key, rlm.period)
    }
    if count > rlm.limit {
      c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "msg": "Too many requests"})
      return
    }
    c.Next()
  }
}
