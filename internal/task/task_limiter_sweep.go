package task

import (
	"context"
	"time"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/pkg/limiter"

	"go.uber.org/zap"
)

func init() {
	Register(NewLimiterSweepTask)
}

// LimiterSweepTask 清理进程内限流存储中的闲置键
type LimiterSweepTask struct {
	sweeper  limiter.Sweeper
	interval time.Duration
	logger   *zap.Logger
}

// NewLimiterSweepTask 仅在使用进程内限流存储时启用
func NewLimiterSweepTask(a *app.App) (Task, error) {
	sweeper := a.LimiterSweeper()
	interval := a.Config().App.LimiterSweepInterval
	if sweeper == nil || interval <= 0 {
		return nil, nil
	}
	return &LimiterSweepTask{sweeper: sweeper, interval: interval, logger: a.Logger()}, nil
}

// Name 返回任务名称
func (t *LimiterSweepTask) Name() string {
	return "LimiterSweepTask"
}

// Run 执行清理
func (t *LimiterSweepTask) Run(_ context.Context) error {
	if n := t.sweeper.Sweep(time.Now()); n > 0 {
		t.logger.Debug(t.Name()+" swept idle keys", zap.Int("count", n))
	}
	return nil
}

// LoopInterval 返回执行间隔
func (t *LimiterSweepTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *LimiterSweepTask) IsStartupRun() bool {
	return false
}
