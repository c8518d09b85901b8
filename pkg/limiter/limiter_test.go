package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_FixedWindow(t *testing.T) {
	clk := newClock()
	m := NewMemoryStore(3, time.Minute, clk.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := m.Check(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	clk.Advance(20 * time.Second)
	res, err := m.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 40*time.Second, res.RetryAfter)

	// 其他键不受影响
	res, _ = m.Check(ctx, "5.6.7.8")
	assert.True(t, res.Allowed)

	// 窗口过后惰性重置
	clk.Advance(40 * time.Second)
	res, _ = m.Check(ctx, "1.2.3.4")
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryStore_Sweep(t *testing.T) {
	clk := newClock()
	m := NewMemoryStore(1, time.Minute, clk.Now)
	ctx := context.Background()

	_, _ = m.Check(ctx, "a")
	clk.Advance(30 * time.Second)
	_, _ = m.Check(ctx, "b")
	clk.Advance(30 * time.Second)

	assert.Equal(t, 1, m.Sweep(clk.Now()))
	assert.Equal(t, 1, m.Len())
}

func TestTokenStore(t *testing.T) {
	clk := newClock()
	s := NewTokenStore(2, 2*time.Second, clk.Now)
	ctx := context.Background()

	r1, _ := s.Check(ctx, "k")
	r2, _ := s.Check(ctx, "k")
	r3, _ := s.Check(ctx, "k")
	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
	assert.False(t, r3.Allowed)
	assert.Equal(t, time.Second, r3.RetryAfter)

	// 拒绝不消耗令牌
	clk.Advance(time.Second)
	r4, _ := s.Check(ctx, "k")
	assert.True(t, r4.Allowed)

	clk.Advance(2 * time.Second)
	assert.Equal(t, 1, s.Sweep(clk.Now()))
	assert.Equal(t, 0, s.Len())
}

func TestDecide(t *testing.T) {
	assert.Equal(t, Result{Allowed: true, Remaining: 4}, decide(1, time.Minute, 5, time.Minute))
	assert.Equal(t, Result{Allowed: true, Remaining: 0}, decide(5, time.Minute, 5, time.Minute))
	assert.Equal(t, Result{Allowed: false, RetryAfter: 12 * time.Second}, decide(6, 12*time.Second, 5, time.Minute))
	assert.Equal(t, Result{Allowed: false, RetryAfter: time.Minute}, decide(6, -1, 5, time.Minute))
}

func TestNew(t *testing.T) {
	l, err := New(Config{Enabled: false}, nil)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, l)

	l, err = New(Config{Enabled: true, Store: StoreToken, Limit: 1, Window: time.Second}, nil)
	require.NoError(t, err)
	assert.IsType(t, &TokenStore{}, l)

	_, err = New(Config{Enabled: true, Store: StoreRedis, Limit: 1, Window: time.Second}, nil)
	assert.Error(t, err)

	_, err = New(Config{Enabled: true, Store: "bogus", Limit: 1, Window: time.Second}, nil)
	assert.Error(t, err)

	_, err = New(Config{Enabled: true, Limit: 0, Window: time.Second}, nil)
	assert.Error(t, err)
}

// 需要本地 redis，设置 LIMITER_REDIS_ADDR 后运行
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LIMITER_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIMITER_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	prefix := "microdoc:test:" + time.Now().Format("150405.000000") + ":"
	s := NewRedisStore(rdb, prefix, 2, 10*time.Second)

	r1, err := s.Check(ctx, "k")
	require.NoError(t, err)
	r2, _ := s.Check(ctx, "k")
	r3, _ := s.Check(ctx, "k")
	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
	assert.False(t, r3.Allowed)
	assert.True(t, r3.RetryAfter > 0 && r3.RetryAfter <= 10*time.Second)
}

func TestMethodLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter().AddBuckets(BucketRule{
		Key:          "POST /api/note",
		FillInterval: time.Hour,
		Capacity:     1,
		Quantum:      1,
	})

	r := gin.New()
	var key string
	r.POST("/api/note", func(c *gin.Context) { key = l.Key(c) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/note", nil))

	assert.Equal(t, "POST /api/note", key)
	bucket, ok := l.GetBucket(key)
	require.True(t, ok)
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(0), bucket.TakeAvailable(1))
}
