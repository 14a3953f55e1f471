package noticeboard

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golivishiva/Digital-Notice-Board/config"
	"gorm.io/gorm"
)

// Config Engine 配置。DB 必填，其余可选。
type Config struct {
	DB  *gorm.DB
	RDB *redis.Client // 为空时不启用会话缓存与登录限流

	// App 服务配置，为空时使用 config.Default()
	App *config.Config

	// Clock 时间源（测试用）
	Clock func() time.Time

	// DisableJobs 不注册定时任务
	DisableJobs bool

	// SkipMigrate 不自动建表
	SkipMigrate bool
}

type Option func(*Config)

func WithDB(db *gorm.DB) Option {
	return func(c *Config) {
		c.DB = db
	}
}

func WithRDB(rdb *redis.Client) Option {
	return func(c *Config) {
		c.RDB = rdb
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(c *Config) {
		c.App = cfg
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithoutJobs 关闭 cron（测试 / 多实例部署只让一个实例跑任务）
func WithoutJobs() Option {
	return func(c *Config) {
		c.DisableJobs = true
	}
}

func WithSkipMigrate(skip bool) Option {
	return func(c *Config) {
		c.SkipMigrate = skip
	}
}
