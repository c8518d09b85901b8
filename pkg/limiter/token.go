package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type tokenEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// TokenStore keeps one token bucket per key, refilled at limit/period with a burst of limit.
// TokenStore 每个键一个令牌桶
type TokenStore struct {
	mu      sync.Mutex
	entries map[string]*tokenEntry
	limit   int
	period  time.Duration
	now     Clock
}

var _ Limiter = (*TokenStore)(nil)
var _ Sweeper = (*TokenStore)(nil)

func NewTokenStore(limit int, period time.Duration, now Clock) *TokenStore {
	return &TokenStore{
		entries: make(map[string]*tokenEntry),
		limit:   limit,
		period:  period,
		now:     now,
	}
}

func (s *TokenStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		every := rate.Every(s.period / time.Duration(s.limit))
		e = &tokenEntry{limiter: rate.NewLimiter(every, s.limit)}
		s.entries[key] = e
	}
	e.lastUsed = now
	return e.limiter
}

// Check 尝试取一个令牌，不足时给出等待时长
func (s *TokenStore) Check(_ context.Context, key string) (Result, error) {
	now := s.now()
	lim := s.get(key, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return Result{Allowed: false, RetryAfter: s.period}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: delay}, nil
	}
	return Result{Allowed: true, Remaining: int(lim.TokensAt(now))}, nil
}

// Sweep removes buckets idle for a full period; such buckets are full again, so dropping them is lossless.
// Sweep 清理闲置令牌桶
func (s *TokenStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.lastUsed) >= s.period {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
