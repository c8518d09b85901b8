// Package limiter provides per-key call-rate limiting behind a small capability interface.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreToken  = "token"
	StoreRedis  = "redis"
)

// Result is the outcome of one Check.
// Result 限流检查结果
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether one more call for key fits the quota.
// Limiter 限流能力接口
type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}

// Sweeper is implemented by in-process stores that accumulate idle keys.
// Sweeper 清理闲置键
type Sweeper interface {
	Sweep(now time.Time) int
}

// Clock returns the current time; tests substitute a fake.
type Clock func() time.Time

// RedisConfig 共享缓存配置
type RedisConfig struct {
	Address  string `yaml:"address" default:"127.0.0.1:6379"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config 限流配置
type Config struct {
	Enabled   bool          `yaml:"enabled"`
	Store     string        `yaml:"store" default:"memory"`     // memory | token | redis
	Limit     int           `yaml:"limit" default:"60"`         // 每个窗口允许的请求数
	Window    time.Duration `yaml:"window" default:"1m"`        // 窗口长度
	KeyPrefix string        `yaml:"key-prefix" default:"microdoc:ratelimit:"`
	Redis     RedisConfig   `yaml:"redis"`
}

// New builds the configured store. rdb is only consulted for the redis store.
// New 根据配置创建限流器
func New(cfg Config, rdb redis.Cmdable) (Limiter, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, fmt.Errorf("limiter: limit and window must be positive, got %d/%s", cfg.Limit, cfg.Window)
	}

	switch cfg.Store {
	case "", StoreMemory:
		return NewMemoryStore(cfg.Limit, cfg.Window, time.Now), nil
	case StoreToken:
		return NewTokenStore(cfg.Limit, cfg.Window, time.Now), nil
	case StoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("limiter: redis store requires a redis client")
		}
		return NewRedisStore(rdb, cfg.KeyPrefix, cfg.Limit, cfg.Window), nil
	default:
		return nil, fmt.Errorf("limiter: unknown store %q", cfg.Store)
	}
}

// NewRedisClient 根据配置创建 redis 客户端并检测连通性
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("limiter: connect redis %s: %w", cfg.Address, err)
	}
	return client, nil
}

// Noop allows everything.
type Noop struct{}

func (Noop) Check(context.Context, string) (Result, error) {
	return Result{Allowed: true}, nil
}
