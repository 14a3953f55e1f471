package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// RequireCapability 对不涉及资源归属的操作做能力检查，须挂在 GinAuthMiddleware 之后。
// 涉及归属（作者本人）的检查在 service 里加载资源后进行。
func RequireCapability(action service.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Abort(c, http.StatusUnauthorized, service.ErrNotAuthenticated.Msg)
			return
		}
		if !service.Can(user, action, "") {
			response.Abort(c, http.StatusForbidden, service.ErrPermissionDenied.Msg)
			return
		}
		c.Next()
	}
}

// RequireAdmin 后台接口
func RequireAdmin() gin.HandlerFunc {
	return RequireCapability(service.ActAdmin)
}
