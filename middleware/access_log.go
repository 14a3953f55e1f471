package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/logger"
)

// AccessLog 请求日志，替代 gin.Logger
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := logger.L().Info()
		switch {
		case status >= 500:
			evt = logger.L().Error()
		case status >= 400:
			evt = logger.L().Warn()
		}
		evt = evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP())
		if u := CurrentUser(c); u != nil {
			evt = evt.Str("user_id", u.ID)
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.Msg("http")
	}
}
