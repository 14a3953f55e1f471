package noticeboard

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/middleware"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

/*
	路由按文件拆分：
- handler_auth.go          注册 / 登录 / 注销 / 当前用户
- handler_notice.go        公告、互动、评论、统计
- handler_admin.go         后台用户管理、日志、仪表盘、计数校准
- handler_notification.go  通知拉取 / 已读 / WS
*/

// Router 返回挂好全部接口的 gin.Engine
func (e *Engine) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog())
	r.Use(cors.New(e.corsConfig()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/ws"})))

	RegisterSwagger(r, "/swagger/*any")
	e.RegisterRoutes(r.Group("/api"))
	return r
}

// RegisterRoutes 把接口挂到调用方的路由组上（宿主自带 gin 时使用）
func (e *Engine) RegisterRoutes(api *gin.RouterGroup) {
	auth := middleware.GinAuthMiddleware(e.AuthService, nil)
	admin := middleware.RequireAdmin()

	api.GET("/health", e.GinHandleHealth)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", e.GinHandleRegister)
		authGroup.POST("/login", middleware.RateLimit(e.config.RDB, middleware.RateLimitConfig{
			Limit:  e.app.Auth.LoginRateLimit,
			Window: e.app.Auth.LoginRateWindow,
		}), e.GinHandleLogin)
		authGroup.POST("/logout", middleware.GinAuthMiddleware(e.AuthService, &middleware.AuthOptions{Optional: true}), e.GinHandleLogout)
		authGroup.GET("/me", auth, e.GinHandleMe)
	}

	notices := api.Group("/notices", auth)
	{
		notices.GET("", e.GinHandleListNotices)
		notices.POST("", middleware.RequireCapability(service.ActNoticeCreate), e.GinHandleCreateNotice)
		notices.GET("/pending", admin, e.GinHandleListPendingNotices)
		notices.GET("/bookmarks", e.GinHandleListBookmarks)
		notices.GET("/analytics/stats", e.GinHandleStats)
		notices.GET("/:id", e.GinHandleGetNotice)
		notices.PUT("/:id", e.GinHandleUpdateNotice)
		notices.DELETE("/:id", e.GinHandleDeleteNotice)
		notices.POST("/:id/approve", admin, e.GinHandleApproveNotice)
		notices.POST("/:id/interact", e.GinHandleInteract)
		notices.GET("/:id/comments", e.GinHandleListComments)
		notices.POST("/:id/comments", e.GinHandleAddComment)
	}

	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", e.GinHandleListNotifications)
		notifications.POST("/read", e.GinHandleMarkNotificationsRead)
	}
	api.GET("/ws", auth, e.GinHandleWS)

	adminGroup := api.Group("/admin", auth, admin)
	{
		adminGroup.GET("/users", e.GinHandleAdminListUsers)
		adminGroup.POST("/users", e.GinHandleAdminCreateUser)
		adminGroup.PUT("/users/:id", e.GinHandleAdminUpdateUser)
		adminGroup.DELETE("/users/:id", e.GinHandleAdminDeleteUser)
		adminGroup.POST("/users/:id/restore", e.GinHandleAdminRestoreUser)
		adminGroup.DELETE("/users/:id/permanent", e.GinHandleAdminPurgeUser)
		adminGroup.GET("/logs", e.GinHandleAdminLogs)
		adminGroup.GET("/dashboard", e.GinHandleAdminDashboard)
		adminGroup.POST("/notices/:id/reconcile", e.GinHandleAdminReconcile)
	}
}

func (e *Engine) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// 带 cookie 的跨域请求需要回显具体 origin，不能用 AllowAllOrigins
	cfg.AllowOriginFunc = originMatcher(e.app.Server.AllowOrigins)
	return cfg
}

// GinHandleHealth 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (e *Engine) GinHandleHealth(ctx *gin.Context) {
	status := "ok"
	if sqlDB, err := e.config.DB.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		status = "degraded"
	}
	ctx.JSON(http.StatusOK, gin.H{"status": status})
}

// currentUser 鉴权中间件保证非空
func currentUser(ctx *gin.Context) *models.User {
	return middleware.CurrentUser(ctx)
}

func requestMeta(ctx *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: ctx.ClientIP(), UserAgent: ctx.Request.UserAgent()}
}
