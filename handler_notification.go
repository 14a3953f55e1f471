package noticeboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// -------------------- 通知（Notification）相关接口 --------------------

// NotificationListResp 通知列表
type NotificationListResp struct {
	Items  []service.NotificationDTO `json:"items"`
	Unread int64                     `json:"unread"`
}

// GinHandleListNotifications 拉取通知
// @Summary 拉取通知（最新在前）
// @Tags 通知
// @Produce json
// @Param unreadOnly query bool false "只看未读"
// @Param limit query int false "条数(默认50,最大200)"
// @Success 200 {object} NotificationListResp
// @Security CookieAuth
// @Router /notifications [get]
func (e *Engine) GinHandleListNotifications(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	unreadOnly, _ := strconv.ParseBool(ctx.DefaultQuery("unreadOnly", "false"))

	items, unread, err := e.NotificationService.List(ctx.Request.Context(), currentUser(ctx).ID, unreadOnly, limit)
	if err != nil {
		response.Fail(ctx, err, "Failed to get notifications")
		return
	}
	response.OK(ctx, NotificationListResp{Items: items, Unread: unread})
}

type MarkNotificationsReadReq struct {
	IDs []string `json:"ids"` // 为空表示全部
}

// GinHandleMarkNotificationsRead 标记通知已读
// @Summary 标记通知已读
// @Tags 通知
// @Accept json
// @Produce json
// @Param req body MarkNotificationsReadReq true "ids 为空表示全部"
// @Success 200 {object} map[string]int64 "updated"
// @Security CookieAuth
// @Router /notifications/read [post]
func (e *Engine) GinHandleMarkNotificationsRead(ctx *gin.Context) {
	var req MarkNotificationsReadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	n, err := e.NotificationService.MarkRead(ctx.Request.Context(), currentUser(ctx).ID, req.IDs)
	if err != nil {
		response.Fail(ctx, err, "Failed to mark notifications read")
		return
	}
	response.OK(ctx, gin.H{"updated": n})
}

// GinHandleWS 通知推送 websocket，握手时用 sid cookie 鉴权
// @Summary 通知推送（WebSocket）
// @Tags 通知
// @Success 101
// @Security CookieAuth
// @Router /ws [get]
func (e *Engine) GinHandleWS(ctx *gin.Context) {
	e.WsServer.ServeWS(ctx.Writer, ctx.Request, currentUser(ctx).ID)
}
