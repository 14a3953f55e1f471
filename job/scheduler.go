// Package job 定时任务：会话清理、计数校准。
package job

import (
	"github.com/golivishiva/Digital-Notice-Board/config"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/service"
	"github.com/robfig/cron/v3"
)

// Deps 任务依赖的服务
type Deps struct {
	Sessions     *service.SessionService
	Interactions *service.InteractionService
}

// NewScheduler 按配置注册任务，表达式为空的任务不注册。返回未启动的 cron。
func NewScheduler(cfg config.JobsConfig, deps Deps) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{})))

	if cfg.SessionSweep != "" && deps.Sessions != nil {
		if _, err := c.AddJob(cfg.SessionSweep, NewSessionSweepJob(deps.Sessions)); err != nil {
			return nil, err
		}
	}
	if cfg.CounterReconcile != "" && deps.Interactions != nil {
		if _, err := c.AddJob(cfg.CounterReconcile, NewCounterReconcileJob(deps.Interactions)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// cronLogger 把 cron 内部日志接到 logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(append([]interface{}{msg, " "}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.L().Error().Err(err).Fields(keysAndValues).Msg(msg)
}
