package noticeboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// -------------------- 公告（Notice）相关接口 --------------------

// InteractResp 互动切换结果
type InteractResp struct {
	Action string `json:"action" example:"added"`
}

func setTotal(ctx *gin.Context, total int64) {
	ctx.Header("X-Total-Count", strconv.FormatInt(total, 10))
}

// GinHandleCreateNotice 发布公告
// @Summary 发布公告
// @Description 管理员发布直接通过审核，教职工发布进入待审核。未指定分类时自动分类。
// @Tags 公告
// @Accept json
// @Produce json
// @Param req body service.CreateNoticeReq true "公告内容"
// @Success 200 {object} response.IDBody
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Security CookieAuth
// @Router /notices [post]
func (e *Engine) GinHandleCreateNotice(ctx *gin.Context) {
	var req service.CreateNoticeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	n, err := e.NoticeService.Create(ctx.Request.Context(), currentUser(ctx), req, requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to create notice")
		return
	}
	response.OK(ctx, response.IDBody{ID: n.ID, Message: "Notice created successfully"})
}

// GinHandleListNotices 公告列表
// @Summary 公告列表（按角色过滤可见范围）
// @Description 置顶优先，再按发布时间倒序。总数在 X-Total-Count 响应头。
// @Tags 公告
// @Produce json
// @Param category query string false "分类"
// @Param department query string false "部门（all 表示不过滤）"
// @Param search query string false "标题/正文关键字"
// @Param pinned query bool false "只看置顶"
// @Param archived query bool false "只看归档"
// @Param page query int false "页码(默认1)"
// @Param limit query int false "条数(默认20,最大100)"
// @Success 200 {array} service.NoticeItem
// @Security CookieAuth
// @Router /notices [get]
func (e *Engine) GinHandleListNotices(ctx *gin.Context) {
	var req service.ListNoticesReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	page, err := e.NoticeService.List(ctx.Request.Context(), currentUser(ctx), req)
	if err != nil {
		response.Fail(ctx, err, "Failed to get notices")
		return
	}
	setTotal(ctx, page.Total)
	response.OK(ctx, page.Items)
}

// GinHandleListPendingNotices 待审核公告
// @Summary 待审核公告（管理员）
// @Tags 公告
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "条数"
// @Success 200 {array} service.NoticeItem
// @Security CookieAuth
// @Router /notices/pending [get]
func (e *Engine) GinHandleListPendingNotices(ctx *gin.Context) {
	pageNum, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	page, err := e.NoticeService.ListPending(ctx.Request.Context(), currentUser(ctx), pageNum, limit)
	if err != nil {
		response.Fail(ctx, err, "Failed to get pending notices")
		return
	}
	setTotal(ctx, page.Total)
	response.OK(ctx, page.Items)
}

// GinHandleGetNotice 公告详情
// @Summary 公告详情
// @Description 每次调用浏览数 +1；返回附件和当前用户已有的互动类型
// @Tags 公告
// @Produce json
// @Param id path string true "公告ID"
// @Success 200 {object} service.NoticeDetail
// @Failure 404 {object} response.ErrorBody
// @Security CookieAuth
// @Router /notices/{id} [get]
func (e *Engine) GinHandleGetNotice(ctx *gin.Context) {
	d, err := e.NoticeService.Get(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, err, "Failed to get notice")
		return
	}
	response.OK(ctx, d)
}

// GinHandleUpdateNotice 修改公告
// @Summary 修改公告（作者或管理员）
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path string true "公告ID"
// @Param req body service.UpdateNoticeReq true "要修改的字段"
// @Success 200 {object} response.MessageBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Security CookieAuth
// @Router /notices/{id} [put]
func (e *Engine) GinHandleUpdateNotice(ctx *gin.Context) {
	var req service.UpdateNoticeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	if err := e.NoticeService.Update(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), req, requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to update notice")
		return
	}
	response.Message(ctx, "Notice updated successfully")
}

// GinHandleDeleteNotice 删除公告
// @Summary 删除公告（作者或管理员），级联删除附件/互动/评论/通知
// @Tags 公告
// @Produce json
// @Param id path string true "公告ID"
// @Success 200 {object} response.MessageBody
// @Security CookieAuth
// @Router /notices/{id} [delete]
func (e *Engine) GinHandleDeleteNotice(ctx *gin.Context) {
	if err := e.NoticeService.Delete(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to delete notice")
		return
	}
	response.Message(ctx, "Notice deleted successfully")
}

// GinHandleApproveNotice 审核通过
// @Summary 审核通过（管理员，幂等）
// @Tags 公告
// @Produce json
// @Param id path string true "公告ID"
// @Success 200 {object} response.MessageBody
// @Security CookieAuth
// @Router /notices/{id}/approve [post]
func (e *Engine) GinHandleApproveNotice(ctx *gin.Context) {
	if err := e.NoticeService.Approve(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), requestMeta(ctx)); err != nil {
		response.Fail(ctx, err, "Failed to approve notice")
		return
	}
	response.Message(ctx, "Notice approved successfully")
}

// GinHandleInteract 切换互动
// @Summary 点赞 / 收藏 / 确认已读（再次调用取消）
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path string true "公告ID"
// @Param req body service.InteractReq true "type: like | bookmark | acknowledge"
// @Success 200 {object} InteractResp
// @Failure 400 {object} response.ErrorBody "Invalid interaction type"
// @Security CookieAuth
// @Router /notices/{id}/interact [post]
func (e *Engine) GinHandleInteract(ctx *gin.Context) {
	var req service.InteractReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}
	action, err := e.InteractionService.Toggle(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), req.Type)
	if err != nil {
		response.Fail(ctx, err, "Failed to process interaction")
		return
	}
	response.OK(ctx, InteractResp{Action: action})
}

// GinHandleListBookmarks 我的收藏
// @Summary 我的收藏
// @Tags 公告
// @Produce json
// @Success 200 {array} service.NoticeItem
// @Security CookieAuth
// @Router /notices/bookmarks [get]
func (e *Engine) GinHandleListBookmarks(ctx *gin.Context) {
	items, err := e.InteractionService.ListBookmarks(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to get bookmarks")
		return
	}
	response.OK(ctx, items)
}

// GinHandleListComments 评论列表
// @Summary 评论列表（最新在前）
// @Tags 评论
// @Produce json
// @Param id path string true "公告ID"
// @Success 200 {array} service.CommentItem
// @Security CookieAuth
// @Router /notices/{id}/comments [get]
func (e *Engine) GinHandleListComments(ctx *gin.Context) {
	items, err := e.CommentService.ListComments(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, err, "Failed to get comments")
		return
	}
	response.OK(ctx, items)
}

// GinHandleAddComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path string true "公告ID"
// @Param req body service.AddCommentReq true "评论内容"
// @Success 200 {object} response.IDBody
// @Failure 400 {object} response.ErrorBody "Comment content is required"
// @Security CookieAuth
// @Router /notices/{id}/comments [post]
func (e *Engine) GinHandleAddComment(ctx *gin.Context) {
	var req service.AddCommentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Abort(ctx, http.StatusBadRequest, "Comment content is required")
		return
	}
	id, err := e.CommentService.AddComment(ctx.Request.Context(), currentUser(ctx), ctx.Param("id"), req.Content, requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Failed to add comment")
		return
	}
	response.OK(ctx, response.IDBody{ID: id, Message: "Comment added successfully"})
}

// GinHandleStats 公告统计
// @Summary 分类分布、互动汇总、最近公告
// @Tags 统计
// @Produce json
// @Success 200 {object} service.Stats
// @Security CookieAuth
// @Router /notices/analytics/stats [get]
func (e *Engine) GinHandleStats(ctx *gin.Context) {
	s, err := e.AnalyticsService.Stats(ctx.Request.Context())
	if err != nil {
		response.Fail(ctx, err, "Failed to get analytics")
		return
	}
	response.OK(ctx, s)
}
