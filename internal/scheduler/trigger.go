package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medmaint/pkg/util"
)

// LoginTrigger fires an opportunistic scheduler pass when a user logs in,
// gated by a Redis deduper so a burst of logins produces at most one pass
// per TTL window. The pass runs in the background; login latency is never
// coupled to scheduler work.
type LoginTrigger struct {
	engine  *Engine
	deduper *util.Deduper
	logger  *zap.Logger
	timeout time.Duration
}

func NewLoginTrigger(engine *Engine, deduper *util.Deduper, logger *zap.Logger) *LoginTrigger {
	return &LoginTrigger{
		engine:  engine,
		deduper: deduper,
		logger:  logger,
		timeout: 2 * time.Minute,
	}
}

// Fire schedules a background pass if the throttle window is open.
func (t *LoginTrigger) Fire() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		if !t.deduper.AcquireOnce(ctx, "scheduler", "login-pass") {
			return
		}

		if _, err := t.engine.RunPass(ctx, time.Now(), "login"); err != nil {
			t.logger.Error("Login-triggered scheduler pass failed", zap.Error(err))
		}
	}()
}
