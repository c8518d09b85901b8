// Package writequeue serializes database writes through a single worker
// Package writequeue 通过单个 worker 串行执行数据库写操作
// SQLite allows one writer at a time; queuing writes keeps it out of "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// 错误定义
var (
	// ErrWriteQueueFull 写队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 写队列已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 写操作等待超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity pending writes accepted before Execute fails fast, default 100
	// QueueCapacity 排队上限，默认 100
	QueueCapacity int
	// WriteTimeout how long a caller waits for its write, default 30 seconds
	// WriteTimeout 单次写操作的等待上限，默认 30 秒
	WriteTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// Writer runs submitted writes one at a time in FIFO order.
// Writer 单写者队列
type Writer struct {
	config Config
	logger *zap.Logger

	ch   chan writeOp
	done chan struct{}

	// closed 与入队共用一把锁，关闭后不会再有写入进入 ch
	mu     sync.RWMutex
	closed bool

	executed atomic.Int64
	failed   atomic.Int64
	skipped  atomic.Int64
}

// New starts the writer goroutine.
// New 创建写队列并启动 worker，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Writer {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Writer{
		config: c,
		logger: logger,
		ch:     make(chan writeOp, c.QueueCapacity),
		done:   make(chan struct{}),
	}
	go w.run()

	w.logger.Info("write queue started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout))
	return w
}

// Execute queues fn and waits for its result.
// A write still queued when the caller gives up is skipped, never run late.
// Execute 提交写操作并等待结果；调用方放弃等待后，尚未执行的写操作会被跳过
func (w *Writer) Execute(ctx context.Context, fn func() error) error {
	opCtx, cancel := context.WithTimeout(ctx, w.config.WriteTimeout)
	defer cancel()

	op := writeOp{ctx: opCtx, fn: fn, result: make(chan error, 1)}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	select {
	case w.ch <- op:
	default:
		w.mu.RUnlock()
		return ErrWriteQueueFull
	}
	w.mu.RUnlock()

	select {
	case err := <-op.result:
		return err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrWriteTimeout
	}
}

// run 依次执行写操作，ch 关闭后排空剩余操作再退出
func (w *Writer) run() {
	defer close(w.done)
	for op := range w.ch {
		w.execute(op)
	}
}

func (w *Writer) execute(op writeOp) {
	if err := op.ctx.Err(); err != nil {
		w.skipped.Add(1)
		op.result <- err
		return
	}

	err := op.fn()
	if err != nil {
		w.failed.Add(1)
	} else {
		w.executed.Add(1)
	}
	op.result <- err
}

// Shutdown stops accepting writes and waits until queued ones have run.
// Shutdown 停止接收写操作，等待已排队的写操作执行完毕
func (w *Writer) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	pending := len(w.ch)
	close(w.ch)
	w.mu.Unlock()

	w.logger.Info("write queue shutting down", zap.Int("pending", pending))

	select {
	case <-w.done:
		w.logger.Info("write queue drained")
		return nil
	case <-ctx.Done():
		w.logger.Warn("write queue shutdown timeout", zap.Int("pending", len(w.ch)))
		return ctx.Err()
	}
}

// IsClosed 返回写队列是否已关闭
func (w *Writer) IsClosed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

// Metrics write queue counters
// Metrics 写队列指标
type Metrics struct {
	QueueCapacity int
	Pending       int
	Executed      int64
	Failed        int64
	Skipped       int64
	IsClosed      bool
}

// GetMetrics 获取当前指标
func (w *Writer) GetMetrics() Metrics {
	return Metrics{
		QueueCapacity: w.config.QueueCapacity,
		Pending:       len(w.ch),
		Executed:      w.executed.Load(),
		Failed:        w.failed.Load(),
		Skipped:       w.skipped.Load(),
		IsClosed:      w.IsClosed(),
	}
}
