package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed window counter shared by every instance through redis.
// The first INCR of a window sets its TTL; the key vanishing is the window reset.
// RedisStore 基于 redis 的共享固定窗口计数器
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	period time.Duration
}

var _ Limiter = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, prefix string, limit int, period time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, limit: limit, period: period}
}

func (s *RedisStore) name(key string) string {
	return s.prefix + key
}

// Check 计数并返回剩余额度
func (s *RedisStore) Check(ctx context.Context, key string) (Result, error) {
	name := s.name(key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, name)
		pipe.ExpireNX(ctx, name, s.period)
		ttl = pipe.PTTL(ctx, name)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return decide(incr.Val(), ttl.Val(), s.limit, s.period), nil
}

func decide(count int64, ttl time.Duration, limit int, period time.Duration) Result {
	if count <= int64(limit) {
		return Result{Allowed: true, Remaining: limit - int(count)}
	}
	// 键没有 TTL 时按整个窗口等待
	if ttl <= 0 {
		ttl = period
	}
	return Result{Allowed: false, RetryAfter: ttl}
}
