package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResult struct {
	err error
}

func (r *stubResult) Err() error {
	return r.err
}

type stubJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
	running   *int32
	peak      *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.running != nil {
		n := atomic.AddInt32(j.running, 1)
		defer atomic.AddInt32(j.running, -1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &stubResult{err: errors.New("job error")}
	}
	return &stubResult{}
}

func TestNewPool(t *testing.T) {
	assert.Equal(t, 5, NewPool(context.Background(), 5).workers)
	assert.Equal(t, 1, NewPool(context.Background(), 0).workers, "zero input")
	assert.Equal(t, 1, NewPool(context.Background(), -3).workers, "negative input")
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	const count = 50

	for i := 0; i < count; i++ {
		require.True(t, pool.Submit(&stubJob{executed: &executed}), "submit %d", i)
	}

	results := pool.Wait()

	assert.Len(t, results, count)
	assert.Equal(t, int32(count), atomic.LoadInt32(&executed))
}

func TestPool_Concurrency(t *testing.T) {
	const workers = 3
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var running, peak int32
	for i := 0; i < 12; i++ {
		pool.Submit(&stubJob{duration: 20 * time.Millisecond, running: &running, peak: &peak})
	}
	pool.Wait()

	got := atomic.LoadInt32(&peak)
	assert.LessOrEqual(t, got, int32(workers), "concurrent jobs")
	assert.GreaterOrEqual(t, got, int32(2), "jobs should overlap")
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&stubJob{})
	pool.Submit(&stubJob{shouldErr: true})
	pool.Submit(&stubJob{})

	failed := 0
	for _, r := range pool.Wait() {
		if r.Err() != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestPool_EmptyWait(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	results := pool.Wait()
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()
	pool.Shutdown()

	assert.False(t, pool.Submit(&stubJob{}), "submit after shutdown")
}

func TestPool_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	pool.Start()

	pool.Submit(&stubJob{duration: time.Second})
	time.Sleep(10 * time.Millisecond)
	cancel()

	done := make(chan []Result)
	go func() { done <- pool.Wait() }()

	select {
	case results := <-done:
		for _, r := range results {
			assert.ErrorIs(t, r.Err(), context.Canceled)
		}
	case <-time.After(2 * time.Second):
		require.FailNow(t, "pool did not stop after parent cancel")
	}
}
