package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/response"
)

// RateLimitConfig 固定窗口限流
type RateLimitConfig struct {
	Limit   int           // 每窗口最大请求数，<=0 关闭
	Window  time.Duration // 默认 1 分钟
	KeyFunc func(c *gin.Context) string
}

// RateLimit 基于 redis INCR/EXPIRE 的按 IP 限流；rdb 为 nil 时不限流。
// redis 出错时放行，只记日志。
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		if rdb == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := "nb:ratelimit:" + cfg.KeyFunc(c) + ":" + c.FullPath()
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warningf("rate limit incr %s: %v", key, err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
				logger.Warningf("rate limit expire %s: %v", key, err)
			}
		}

		remaining := cfg.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > cfg.Limit {
			logger.Warningf("rate limit exceeded for %s (count: %d)", key, count)
			response.Abort(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
