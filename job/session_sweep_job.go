package job

import (
	"context"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// SessionSweepJob 清理已过期的会话行
type SessionSweepJob struct {
	sessions *service.SessionService
	timeout  time.Duration
}

func NewSessionSweepJob(sessions *service.SessionService) *SessionSweepJob {
	return &SessionSweepJob{sessions: sessions, timeout: time.Minute}
}

// Run 实现 cron.Job
func (j *SessionSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.sessions.SweepExpired(ctx, j.sessions.Now())
	if err != nil {
		logger.Warning("Failed to sweep expired sessions:", err)
		return
	}
	if n > 0 {
		logger.Infof("Swept %d expired sessions", n)
	}
}
