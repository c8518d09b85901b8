package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func init() {
	Register(NewNotePurgeTask)
}

// NotePurgeTask 物理删除过期超过保留时长的笔记
type NotePurgeTask struct {
	svc      service.NoteService
	schedule cron.Schedule
	track    func() func()
	logger   *zap.Logger
}

// NewNotePurgeTask 创建清理任务，未配置保留时长时禁用
func NewNotePurgeTask(a *app.App) (Task, error) {
	cfg := a.Config().App
	if cfg.PurgeExpiredAfter <= 0 {
		return nil, nil
	}

	schedule, err := ParseSchedule(cfg.PurgeSchedule)
	if err != nil {
		return nil, fmt.Errorf("note purge: invalid schedule %q: %w", cfg.PurgeSchedule, err)
	}

	return &NotePurgeTask{
		svc:      a.NoteService,
		schedule: schedule,
		track:    a.TrackOperation,
		logger:   a.Logger(),
	}, nil
}

// Name 返回任务名称
func (t *NotePurgeTask) Name() string {
	return "NotePurgeTask"
}

// Run 执行清理
func (t *NotePurgeTask) Run(ctx context.Context) error {
	defer t.track()()

	purged, err := t.svc.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	t.logger.Info(t.Name()+" completed", zap.Int64("purged", purged))
	return nil
}

// LoopInterval 由 Schedule 决定
func (t *NotePurgeTask) LoopInterval() time.Duration {
	return 0
}

// Schedule 返回 cron 计划
func (t *NotePurgeTask) Schedule() cron.Schedule {
	return t.schedule
}

// IsStartupRun 启动时执行一次
func (t *NotePurgeTask) IsStartupRun() bool {
	return true
}
