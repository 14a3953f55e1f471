package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

const (
	// ContextUserKey gin context 里保存当前用户（*models.User）的 key
	ContextUserKey = "current_user"
	// ContextSessionKey 当前会话 id
	ContextSessionKey = "session_id"
)

// AuthOptions 可选配置。
type AuthOptions struct {
	// Optional 为 true 时没有有效会话也放行（如 logout）
	Optional bool
}

/*
	GinAuthMiddleware Gin 会话鉴权中间件：

- 从 cookie sid 读取会话 ID
- 会话 -> 用户（过期、已删除、已停用都视为未登录）
- 成功后把用户和会话 ID 写入 gin.Context

使用：api.Use(middleware.GinAuthMiddleware(authService, nil))
*/
func GinAuthMiddleware(auth *service.AuthService, opt *AuthOptions) gin.HandlerFunc {
	optional := opt != nil && opt.Optional

	return func(c *gin.Context) {
		if auth == nil {
			response.Abort(c, http.StatusInternalServerError, "auth service is nil")
			return
		}

		user, sid, err := auth.AuthenticateRequest(c.Request.Context(), c.Request)
		if sid != "" {
			c.Set(ContextSessionKey, sid)
		}
		if err != nil {
			if optional && service.KindOf(err) == service.KindUnauthenticated {
				c.Next()
				return
			}
			if service.KindOf(err) == service.KindUnauthenticated {
				response.Abort(c, http.StatusUnauthorized, service.ErrNotAuthenticated.Msg)
				return
			}
			response.Fail(c, err, "Failed to authenticate")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 取鉴权中间件写入的用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// SessionID 取当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionKey)
}
