package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitWaitRunsEveryTask(t *testing.T) {
	pool := New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(n), count.Load())
}

func TestSubmitReportsFull(t *testing.T) {
	pool := New(1)
	blocker := make(chan struct{})
	started := make(chan struct{})
	defer func() {
		close(blocker)
		pool.Shutdown()
	}()

	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// buffer is 2*size
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolFull)
}

func TestSubmitWaitHonoursContext(t *testing.T) {
	pool := New(1)
	blocker := make(chan struct{})
	defer func() {
		close(blocker)
		pool.Shutdown()
	}()
	for i := 0; i < 3; i++ {
		_ = pool.Submit(func() { <-blocker })
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pool.SubmitWait(ctx, func() {}), context.Canceled)
}

func TestClosedPool(t *testing.T) {
	pool := New(2)
	pool.Shutdown()
	pool.Shutdown()
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() {}), ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitWait(context.Background(), func() { panic("boom") }))
	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(context.Background(), func() { close(done) }))
	<-done
}

func TestEachCollectsErrorsInOrder(t *testing.T) {
	pool := New(3)
	defer pool.Shutdown()

	bad := errors.New("slack down")
	errs := Each(context.Background(), pool, []string{"mail", "slack", "mail"}, func(_ context.Context, ch string) error {
		if ch == "slack" {
			return bad
		}
		return nil
	})
	assert.Equal(t, []error{nil, bad, nil}, errs)
}
