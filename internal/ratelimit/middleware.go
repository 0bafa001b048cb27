package ratelimit

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware はクライアントIP単位でリクエストを制限するGinミドルウェアを返します。
// Redisに到達できない場合はリクエストを通します（fail-open）。
func Middleware(limiter *Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			log.Printf("Rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(result.ResetAt).Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":    "Rate limit exceeded",
				"reset_at": result.ResetAt,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
