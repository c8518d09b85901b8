// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/microdoc-service/internal/dao"
	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/internal/service"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/convert"
	"github.com/haierkeys/microdoc-service/pkg/limiter"
	"github.com/haierkeys/microdoc-service/pkg/writequeue"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	writeQueue *writequeue.Writer

	// 限流
	Limiter      limiter.Limiter
	RouteLimiter limiter.Face
	redis        *redis.Client

	// Repository 层
	NoteRepo domain.NoteRepository

	// Service 层
	NoteService   service.NoteService
	ServiceConfig *service.ServiceConfig

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	startedAt time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		startedAt:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// SQLite 写操作经 Write Queue 串行化，其它数据库交给连接池
	var write dao.WriteFunc
	if cfg.IsSQLite() {
		wqConfig := cfg.GetWriteQueueConfig()
		a.writeQueue = writequeue.New(&wqConfig, logger)
		write = a.writeQueue.Execute
		logger.Info("write queue enabled for sqlite", zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))
	}

	a.Dao = dao.New(db, logger, write)

	if err := a.initLimiters(); err != nil {
		return nil, err
	}

	a.TokenManager = pkgapp.NewTokenManager(cfg.GetTokenConfig())

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	a.ServiceConfig = &service.ServiceConfig{
		Slug: service.SlugServiceConfig{
			MaxLength:           cfg.App.SlugMaxLength,
			Attempts:            cfg.App.SlugAttempts,
			FallbackMaxAttempts: cfg.App.SlugFallbackMaxAttempts,
		},
		Note: service.NoteServiceConfig{
			PasswordCost:   cfg.App.PasswordCost,
			MaxContentSize: convert.StrTo(cfg.App.MaxContentSize).MustToSize(1 << 20),
			OffensiveWords: cfg.App.OffensiveWords,
			AllowWords:     cfg.App.OffensiveAllowWords,
			ReadTimeout:    time.Duration(cfg.App.DefaultContextTimeout) * time.Second,
		},
		Cleanup: service.CleanupConfig{
			PurgeExpiredAfter: cfg.App.PurgeExpiredAfter,
			Schedule:          cfg.App.PurgeSchedule,
		},
	}

	// 初始化 Service 层（依赖注入）
	gate := service.NewAccessGate(service.NewBcryptHasher(cfg.App.PasswordCost), a.TokenManager)
	a.NoteService = service.NewNoteService(service.NoteServiceDeps{
		Repo:   a.NoteRepo,
		Slugs:  service.NewSlugAllocator(a.NoteRepo, a.ServiceConfig),
		Gate:   gate,
		Policy: service.NewContentPolicy(cfg.App.OffensiveWords, cfg.App.OffensiveAllowWords),
		Logger: logger,
		Config: a.ServiceConfig,
	})

	logger.Info("App container initialized successfully",
		zap.String("database", cfg.Database.Type),
		zap.Bool("rateLimit", cfg.RateLimit.Client.Enabled),
		zap.String("rateLimitStore", cfg.RateLimit.Client.Store))

	return a, nil
}

// initLimiters 初始化客户端限流与路由令牌桶
func (a *App) initLimiters() error {
	rl := a.config.RateLimit

	if rl.Client.Enabled && rl.Client.Store == limiter.StoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := limiter.NewRedisClient(ctx, rl.Client.Redis)
		if err != nil {
			return err
		}
		a.redis = client
	}

	var rdb redis.Cmdable
	if a.redis != nil {
		rdb = a.redis
	}
	l, err := limiter.New(rl.Client, rdb)
	if err != nil {
		return err
	}
	a.Limiter = l

	a.RouteLimiter = limiter.NewMethodLimiter()
	if rl.Route.Enabled {
		rule := func(key string) limiter.BucketRule {
			return limiter.BucketRule{
				Key:          key,
				FillInterval: rl.Route.FillInterval,
				Capacity:     rl.Route.Capacity,
				Quantum:      rl.Route.Quantum,
			}
		}
		a.RouteLimiter.AddBuckets(
			rule("POST /api/note"),
			rule("PUT /api/note/:slug"),
			rule("POST /api/note/:slug/restore"),
			rule("POST /api/note/:slug/unlock"),
		)
	}
	return nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			a.logger.Info("Database connection closed")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close: %v", errs)
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Name:      Name,
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Uptime 运行时长
func (a *App) Uptime() time.Duration {
	return time.Since(a.startedAt)
}

// Ping 检查数据库连通性
func (a *App) Ping(ctx context.Context) error {
	return a.Dao.Ping(ctx)
}

// WriteQueue 获取 SQLite 写队列，非 SQLite 部署时为 nil
func (a *App) WriteQueue() *writequeue.Writer {
	return a.writeQueue
}

// LimiterSweeper 返回可清理闲置键的限流存储，redis 等外部存储返回 nil
func (a *App) LimiterSweeper() limiter.Sweeper {
	s, _ := a.Limiter.(limiter.Sweeper)
	return s
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Write Queue -> 后台操作 -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueue != nil {
		a.logger.Info("Shutting down write queue...")
		if err := a.writeQueue.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue shutdown: %w", err))
		}
	}

	// 2. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 3. 关闭数据库与 redis 连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors", zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
