// Package noticeboard 院校公告板后端：按角色发布、审核流、评论、点赞收藏、统计
// @title Digital Notice Board API
// @version 1.0
// @description 公告板 RESTful API：认证、公告、互动、评论、通知、后台管理
// @description
// @description ## 错误格式
// @description 失败时返回 4xx/5xx 与 `{"error": "<msg>"}`，没有其它信封。
// @description - **400**: 参数错误 / 重复的邮箱或用户名
// @description - **401**: 未登录 / 会话失效 / 登录失败
// @description - **403**: 权限不足
// @description - **404**: 资源不存在或对当前用户不可见
// @description - **429**: 登录过于频繁
// @description - **500**: 服务器内部错误
// @description
// @description ## 分页
// @description 列表接口的总数放在 `X-Total-Count` 响应头。
//
// @contact.name API Support
// @contact.url https://github.com/golivishiva/Digital-Notice-Board/issues
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name sid
// @description 登录 / 注册后下发的会话 cookie
package noticeboard
