package noticeboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// -------------------- 后台（Admin）接口，路由组已挂 RequireAdmin --------------------

// GinHandleAdminListUsers 用户列表
// @Summary 用户列表
// @Tags 后台
// @Produce json
// @Param role query string false "角色"
// @Param search query string false "邮箱/用户名/姓名关键字"
// @Param includeDeleted query bool false "包含已删除"
// @Param page query int false "页码"
// @Param limit query int false "条数(默认50)"
// @Success 200 {object} service.UserPage
// @Security CookieAuth
// @Router /admin/users [get]
func (e *Engine) GinHandleAdminListUsers(ctx *gin.Context) {
	var req service.ListUsersReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	page, err := e.UserService.ListUsers(ctx.Request.Context(), req)
	if err != nil {
		response.Fail(ctx, err, "Failed to get users")
		return
	}
	response.OK(ctx, page)
}

// GinHandleAdminCreateUser 创建用户
// @Summary 创建用户（默认已验证）
// @Tags 后台
// @Accept json
// @Produce json
// @Param req body service.CreateUserReq true "用户信息"
// @Success 200 {object} response.IDBody
// @Failure 400 {object} response.ErrorBody
// @Security CookieAuth
// @Router /admin/users [post]
func (e *Engine) GinHandleAdminCreateUser(ctx *gin.Context) {
	var req service.CreateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	id, err := e.UserService.CreateUser(ctx.Request.Context(), currentUser(ctx), req, requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to create user")
		return
	}
	response.OK(ctx, response.IDBody{ID: id, Message: "User created successfully"})
}

// GinHandleAdminUpdateUser 修改用户
// @Summary 修改用户资料/角色/状态，停用会注销该用户全部会话
// @Tags 后台
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param req body service.UpdateUserReq true "要修改的字段"
// @Success 200 {object} response.MessageBody
// @Security CookieAuth
// @Router /admin/users/{id} [put]
func (e *Engine) GinHandleAdminUpdateUser(ctx *gin.Context) {
	var req service.UpdateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	if err := e.UserService.UpdateUser(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), req, requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to update user")
		return
	}
	response.Message(ctx, "User updated successfully")
}

// GinHandleAdminDeleteUser 软删除用户
// @Summary 软删除用户（不能删除自己）
// @Tags 后台
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody "Cannot delete your own account"
// @Security CookieAuth
// @Router /admin/users/{id} [delete]
func (e *Engine) GinHandleAdminDeleteUser(ctx *gin.Context) {
	if err := e.UserService.DeleteUser(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to delete user")
		return
	}
	response.Message(ctx, "User deleted successfully")
}

// GinHandleAdminRestoreUser 恢复用户
// @Summary 恢复软删除的用户
// @Tags 后台
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.MessageBody
// @Security CookieAuth
// @Router /admin/users/{id}/restore [post]
func (e *Engine) GinHandleAdminRestoreUser(ctx *gin.Context) {
	if err := e.UserService.RestoreUser(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to restore user")
		return
	}
	response.Message(ctx, "User restored successfully")
}

// GinHandleAdminPurgeUser 彻底删除用户
// @Summary 彻底删除用户（须先软删除）
// @Description 级联删除会话、互动、评论、通知和该用户发布的公告；审计日志保留但 userId 置空
// @Tags 后台
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody "User must be soft-deleted first"
// @Failure 404 {object} response.ErrorBody
// @Security CookieAuth
// @Router /admin/users/{id}/permanent [delete]
func (e *Engine) GinHandleAdminPurgeUser(ctx *gin.Context) {
	if err := e.UserService.PurgeUser(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to permanently delete user")
		return
	}
	response.Message(ctx, "User permanently deleted")
}

// GinHandleAdminLogs 审计日志
// @Summary 审计日志（最新在前）
// @Tags 后台
// @Produce json
// @Param action query string false "操作类型"
// @Param userId query string false "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "条数(默认100)"
// @Success 200 {array} service.ActivityLogDTO
// @Security CookieAuth
// @Router /admin/logs [get]
func (e *Engine) GinHandleAdminLogs(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	logs, total, err := e.ActivityService.ListLogs(ctx.Request.Context(), ctx.Query("action"), ctx.Query("userId"), page, limit)
	if err != nil {
		response.Fail(ctx, err, "Failed to get logs")
		return
	}
	setTotal(ctx, total)
	response.OK(ctx, logs)
}

// GinHandleAdminDashboard 仪表盘
// @Summary 用户/公告计数和最近 10 条操作
// @Tags 后台
// @Produce json
// @Success 200 {object} service.Dashboard
// @Security CookieAuth
// @Router /admin/dashboard [get]
func (e *Engine) GinHandleAdminDashboard(ctx *gin.Context) {
	d, err := e.AnalyticsService.Dashboard(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to get dashboard stats")
		return
	}
	response.OK(ctx, d)
}

// GinHandleAdminReconcile 计数校准
// @Summary 按明细重算公告的点赞数和评论数
// @Tags 后台
// @Produce json
// @Param id path string true "公告ID"
// @Success 200 {object} service.CounterResult
// @Security CookieAuth
// @Router /admin/notices/{id}/reconcile [post]
func (e *Engine) GinHandleAdminReconcile(ctx *gin.Context) {
	res, err := e.InteractionService.ReconcileCounters(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to reconcile counters")
		return
	}
	response.OK(ctx, res)
}
