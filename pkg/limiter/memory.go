package limiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryStore is a per-process fixed window counter.
// A key's window is reset lazily on the first access after it elapsed.
// MemoryStore 进程内固定窗口计数器
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     Clock
}

var _ Limiter = (*MemoryStore)(nil)
var _ Sweeper = (*MemoryStore)(nil)

func NewMemoryStore(limit int, period time.Duration, now Clock) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     now,
	}
}

// Check 检查并计数
func (m *MemoryStore) Check(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || !now.Before(w.start.Add(m.period)) {
		w = &window{start: now}
		m.windows[key] = w
	}

	if w.count >= m.limit {
		return Result{
			Allowed:    false,
			RetryAfter: w.start.Add(m.period).Sub(now),
		}, nil
	}

	w.count++
	return Result{Allowed: true, Remaining: m.limit - w.count}, nil
}

// Sweep drops windows that already elapsed and returns how many were removed.
// Sweep 删除已过期窗口
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, w := range m.windows {
		if !now.Before(w.start.Add(m.period)) {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的键数量
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
