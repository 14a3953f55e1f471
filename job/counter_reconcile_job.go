package job

import (
	"context"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/service"
)

// CounterReconcileJob 按互动/评论明细重算全部公告的 like_count / comment_count
type CounterReconcileJob struct {
	interactions *service.InteractionService
	timeout      time.Duration
}

func NewCounterReconcileJob(interactions *service.InteractionService) *CounterReconcileJob {
	return &CounterReconcileJob{interactions: interactions, timeout: 30 * time.Minute}
}

func (j *CounterReconcileJob) Run() {
	logger.Debug("Counter reconcile job started")
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.interactions.ReconcileAll(ctx)
	if err != nil {
		logger.Warningf("Counter reconcile stopped after %d notices: %v", n, err)
		return
	}
	logger.Debugf("Counter reconcile completed (%d notices)", n)
}
