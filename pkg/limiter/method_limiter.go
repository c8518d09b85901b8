package limiter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 路由级令牌桶限流接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	Key          string        // 路由模板，如 POST /api/note
	FillInterval time.Duration // 填充间隔
	Capacity     int64         // 桶容量
	Quantum      int64         // 每次填充数量
}

// MethodLimiter buckets requests by method and route template, shared by all clients.
// MethodLimiter 按方法与路由模板限流
type MethodLimiter struct {
	buckets map[string]*ratelimit.Bucket
}

func NewMethodLimiter() Face {
	return MethodLimiter{buckets: make(map[string]*ratelimit.Bucket)}
}

func (l MethodLimiter) Key(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath()
}

func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	bucket, ok := l.buckets[key]
	return bucket, ok
}

// AddBuckets 仅在启动时调用
func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; !ok {
			l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		}
	}
	return l
}
