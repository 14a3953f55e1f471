package noticeboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golivishiva/Digital-Notice-Board/middleware"
	"github.com/golivishiva/Digital-Notice-Board/response"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// -------------------- 认证（Auth）相关接口 --------------------

// GinHandleRegister 用户注册
// @Summary 用户注册
// @Description 注册成功后直接登录，设置 sid cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param req body service.RegisterReq true "注册信息"
// @Success 200 {object} service.UserDTO
// @Failure 400 {object} response.ErrorBody "参数错误 / 邮箱或用户名已存在"
// @Failure 403 {object} response.ErrorBody "不允许自助注册管理员"
// @Router /auth/register [post]
func (e *Engine) GinHandleRegister(ctx *gin.Context) {
	var req service.RegisterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}

	res, err := e.UserService.Register(ctx.Request.Context(), req, requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Registration failed")
		return
	}
	http.SetCookie(ctx.Writer, service.SessionCookie(res.Session, service.IsSecureRequest(ctx.Request)))
	response.OK(ctx, res.User)
}

// GinHandleLogin 用户登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param req body service.LoginReq true "登录信息"
// @Success 200 {object} service.UserDTO
// @Failure 401 {object} response.ErrorBody "Invalid email or password"
// @Failure 429 {object} response.ErrorBody "请求过于频繁"
// @Router /auth/login [post]
func (e *Engine) GinHandleLogin(ctx *gin.Context) {
	var req service.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BindError(ctx, err)
		return
	}

	res, err := e.UserService.Login(ctx.Request.Context(), req, requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Login failed")
		return
	}
	http.SetCookie(ctx.Writer, service.SessionCookie(res.Session, service.IsSecureRequest(ctx.Request)))
	response.OK(ctx, res.User)
}

// GinHandleLogout 注销
// @Summary 注销当前会话
// @Description 没有有效会话也返回成功
// @Tags 认证
// @Produce json
// @Success 200 {object} response.SuccessBody
// @Router /auth/logout [post]
func (e *Engine) GinHandleLogout(ctx *gin.Context) {
	err := e.UserService.Logout(ctx.Request.Context(), middleware.SessionID(ctx), currentUser(ctx), requestMeta(ctx))
	if err != nil {
		response.Fail(ctx, err, "Logout failed")
		return
	}
	http.SetCookie(ctx.Writer, service.ClearSessionCookie(service.IsSecureRequest(ctx.Request)))
	response.OK(ctx, response.SuccessBody{Success: true})
}

// GinHandleMe 当前登录用户
// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Success 200 {object} service.UserDTO
// @Failure 401 {object} response.ErrorBody "Not authenticated"
// @Security CookieAuth
// @Router /auth/me [get]
func (e *Engine) GinHandleMe(ctx *gin.Context) {
	response.OK(ctx, service.ToUserDTO(currentUser(ctx)))
}
