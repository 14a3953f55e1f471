package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// ErrorBody 失败响应：只有一个 error 字段，不带其它信封
type ErrorBody struct {
	Error string `json:"error" example:"Permission denied"`
}

// MessageBody 简单成功提示
type MessageBody struct {
	Message string `json:"message" example:"Notice updated successfully"`
}

// IDBody 创建类接口返回
type IDBody struct {
	ID      string `json:"id" example:"notice_0f8e..."`
	Message string `json:"message,omitempty"`
}

// SuccessBody 注销等接口返回
type SuccessBody struct {
	Success bool `json:"success" example:"true"`
}

// StatusOf 错误分类 -> HTTP 状态码
func StatusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// OK 200 + JSON
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Message 200 + {message}
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// Abort 直接以指定状态码结束请求
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// Fail 把业务错误翻译成 {error}。
// 未分类的错误一律 500 + fallback 文案，细节只写日志。
func Fail(c *gin.Context, err error, fallback string) {
	var e *service.Error
	if errors.As(err, &e) && e.Kind != service.KindInternal {
		Abort(c, StatusOf(e.Kind), e.Msg)
		return
	}
	logger.L().Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg(fallback)
	if fallback == "" {
		fallback = "Internal server error"
	}
	Abort(c, http.StatusInternalServerError, fallback)
}

// BindError 请求体 / 查询参数校验失败 -> 400
func BindError(c *gin.Context, err error) {
	Abort(c, http.StatusBadRequest, bindMessage(err))
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body"
	}
	fe := ve[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email"
	case "min":
		if field == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s", field)
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
