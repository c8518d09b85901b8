package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockWriter 占住 worker，直到 release 被关闭
func blockWriter(t *testing.T, w *Writer) (release func(), result <-chan error) {
	t.Helper()
	started := make(chan struct{})
	gate := make(chan struct{})
	out := make(chan error, 1)
	go func() {
		out <- w.Execute(context.Background(), func() error {
			close(started)
			<-gate
			return nil
		})
	}()
	<-started
	return func() { close(gate) }, out
}

func TestWriter_ExecuteSerializes(t *testing.T) {
	w := New(nil, nil)
	defer w.Shutdown(context.Background())

	var (
		running atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.Execute(context.Background(), func() error {
				n := running.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, int64(20), w.GetMetrics().Executed)
}

func TestWriter_ExecuteReturnsError(t *testing.T) {
	w := New(nil, nil)
	defer w.Shutdown(context.Background())

	boom := errors.New("boom")
	assert.ErrorIs(t, w.Execute(context.Background(), func() error { return boom }), boom)
	assert.Equal(t, int64(1), w.GetMetrics().Failed)
}

func TestWriter_QueueFull(t *testing.T) {
	w := New(&Config{QueueCapacity: 1}, nil)
	defer w.Shutdown(context.Background())

	release, first := blockWriter(t, w)

	queued := make(chan error, 1)
	go func() {
		queued <- w.Execute(context.Background(), func() error { return nil })
	}()
	require.Eventually(t, func() bool { return w.GetMetrics().Pending == 1 }, time.Second, time.Millisecond)

	err := w.Execute(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueFull)

	release()
	assert.NoError(t, <-first)
	assert.NoError(t, <-queued)
}

func TestWriter_TimeoutSkipsQueuedWrite(t *testing.T) {
	w := New(&Config{QueueCapacity: 2, WriteTimeout: 50 * time.Millisecond}, nil)
	defer w.Shutdown(context.Background())

	release, first := blockWriter(t, w)

	var ran atomic.Bool
	err := w.Execute(context.Background(), func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)

	release()
	<-first
	require.Eventually(t, func() bool { return w.GetMetrics().Skipped == 1 }, time.Second, time.Millisecond)
	assert.False(t, ran.Load())
}

func TestWriter_CancelledContext(t *testing.T) {
	w := New(nil, nil)
	defer w.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := w.Execute(ctx, func() error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestWriter_ShutdownDrainsQueue(t *testing.T) {
	w := New(&Config{QueueCapacity: 10}, nil)

	release, first := blockWriter(t, w)

	var (
		ran atomic.Int32
		wg  sync.WaitGroup
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Execute(context.Background(), func() error {
				ran.Add(1)
				return nil
			}))
		}()
	}
	require.Eventually(t, func() bool { return w.GetMetrics().Pending == 3 }, time.Second, time.Millisecond)

	shutdown := make(chan error, 1)
	go func() { shutdown <- w.Shutdown(context.Background()) }()
	require.Eventually(t, w.IsClosed, time.Second, time.Millisecond)

	assert.ErrorIs(t, w.Execute(context.Background(), func() error { return nil }), ErrWriteQueueClosed)

	release()
	assert.NoError(t, <-first)
	assert.NoError(t, <-shutdown)
	wg.Wait()

	assert.Equal(t, int32(3), ran.Load())
	m := w.GetMetrics()
	assert.Equal(t, int64(4), m.Executed)
	assert.True(t, m.IsClosed)
	assert.NoError(t, w.Shutdown(context.Background()))
}

func TestWriter_ShutdownTimeout(t *testing.T) {
	w := New(nil, nil)

	release, first := blockWriter(t, w)
	defer func() {
		release()
		<-first
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Shutdown(ctx), context.DeadlineExceeded)
}
