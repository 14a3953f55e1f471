package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Service 基础服务，包含数据库和配置
type Service struct {
	DB  *gorm.DB
	RDB *redis.Client // 可为 nil：此时不使用会话缓存

	// WsNotifier 用于发送 WebSocket 通知的回调函数
	// 避免循环依赖，通过函数注入的方式
	WsNotifier func(userID string, message []byte)

	// SessionTTL 会话有效期，默认 7 天
	SessionTTL time.Duration

	// AllowAdminSignup 是否允许自助注册为管理员
	AllowAdminSignup bool

	// Clock 可注入的时间源（测试用），为空时使用 time.Now
	Clock func() time.Time

	// Activity 审计日志（尽力写入）
	Activity *ActivityService

	// Notify 通知服务（落库 + WS 推送）
	Notify *NotificationService
}

// Now 当前时间（UTC）
func (s *Service) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// db 绑定请求上下文
func (s *Service) db(ctx context.Context) *gorm.DB {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.DB.WithContext(ctx)
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL <= 0 {
		return defaultSessionTTL
	}
	return s.SessionTTL
}
