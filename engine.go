package noticeboard

import (
	"context"
	"errors"
	"strings"

	"github.com/golivishiva/Digital-Notice-Board/config"
	"github.com/golivishiva/Digital-Notice-Board/job"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/service"
	"github.com/golivishiva/Digital-Notice-Board/store"
	"github.com/robfig/cron/v3"
)

// Engine 公告板服务：持有全部 service、WS hub 和定时任务
type Engine struct {
	config *Config
	app    *config.Config

	SessionService      *service.SessionService
	AuthService         *service.AuthService
	UserService         *service.UserService
	NoticeService       *service.NoticeService
	InteractionService  *service.InteractionService
	CommentService      *service.CommentService
	NotificationService *service.NotificationService
	ActivityService     *service.ActivityService
	AnalyticsService    *service.AnalyticsService
	WsServer            *WsServer

	cron *cron.Cron
}

// NewEngine 创建实例
// 使用选项模式传入配置，Option回调
func NewEngine(opts ...Option) (*Engine, error) {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.DB == nil {
		return nil, errors.New("noticeboard: DB is required")
	}
	if c.App == nil {
		c.App = config.Default()
	}
	app := c.App

	e := &Engine{config: c, app: app}

	if trustsAnyOrigin(app.Server.AllowOrigins) {
		logger.Warning("server.allow_origins contains \"*\": any origin may send credentialed requests")
	}

	// 初始化 WS
	e.WsServer = NewWsServer(originMatcher(app.Server.AllowOrigins))
	go e.WsServer.Run()

	// 初始化基础 Service，注入 WsNotifier 回调
	base := &service.Service{
		DB:               c.DB,
		RDB:              c.RDB,
		WsNotifier:       e.WsServer.SendToUser,
		SessionTTL:       app.Auth.SessionTTL,
		AllowAdminSignup: app.Auth.AllowAdminSignup,
		Clock:            c.Clock,
	}
	base.Activity = service.NewActivityService(base)
	base.Notify = service.NewNotificationService(base)

	// 初始化各个 Service
	e.SessionService = service.NewSessionService(base)
	e.AuthService = service.NewAuthService(e.SessionService)
	e.UserService = service.NewUserService(base, e.SessionService)
	e.NoticeService = service.NewNoticeService(base)
	e.InteractionService = service.NewInteractionService(base)
	e.CommentService = service.NewCommentService(base)
	e.NotificationService = base.Notify
	e.ActivityService = base.Activity
	e.AnalyticsService = service.NewAnalyticsService(base)

	// 迁移表
	if !c.SkipMigrate {
		logger.Info("AutoMigrate...")
		if err := store.AutoMigrate(c.DB); err != nil {
			e.WsServer.Stop()
			return nil, err
		}
	}

	admin := app.Auth.BootstrapAdmin
	if err := e.UserService.EnsureAdmin(context.Background(), admin.Email, admin.Username, admin.Password, admin.FullName); err != nil {
		e.WsServer.Stop()
		return nil, err
	}

	if !c.DisableJobs {
		sched, err := job.NewScheduler(app.Jobs, job.Deps{
			Sessions:     e.SessionService,
			Interactions: e.InteractionService,
		})
		if err != nil {
			e.WsServer.Stop()
			return nil, err
		}
		e.cron = sched
		e.cron.Start()
	}

	return e, nil
}

// Close 停止定时任务和 WS hub
func (e *Engine) Close() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
	e.WsServer.Stop()
}

// originMatcher 跨域来源判定：
// - 空列表：拒绝所有跨域来源（同源请求不受影响）
// - 含 "*"：信任任意来源
// - 其它：精确匹配
func originMatcher(allow []string) func(string) bool {
	set := make(map[string]struct{}, len(allow))
	for _, o := range allow {
		o = strings.TrimSpace(o)
		if o == "*" {
			return func(string) bool { return true }
		}
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return func(origin string) bool {
		_, ok := set[origin]
		return ok
	}
}

// trustsAnyOrigin 配置了 "*"
func trustsAnyOrigin(allow []string) bool {
	for _, o := range allow {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
