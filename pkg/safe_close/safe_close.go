// Package safe_close coordinates graceful shutdown of long running workers.
package safe_close

import (
	"sync"
)

// SafeClose 关闭信号协调器
// 每个 Attach 的工作者在收到关闭信号后调用 done，WaitClosed 等待全部完成
type SafeClose struct {
	mu          sync.Mutex
	wg          sync.WaitGroup
	closeSignal chan struct{}
	once        sync.Once
	err         error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach starts fn in its own goroutine. fn must call done before returning.
// Attach 启动一个工作者
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	go fn(func() { doneOnce.Do(s.wg.Done) }, s.closeSignal)
}

// SendCloseSignal broadcasts shutdown; the first non-nil error is kept.
// SendCloseSignal 发送关闭信号，可重复调用
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if err != nil && s.err == nil {
		s.err = err
	}
	s.mu.Unlock()

	s.once.Do(func() {
		close(s.closeSignal)
	})
}

// Closed 返回关闭信号通道
func (s *SafeClose) Closed() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached worker called done.
// WaitClosed 等待所有工作者退出
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
