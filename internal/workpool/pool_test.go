package workpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), p.Size())

	p, err = New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Size())

	_, err = New(-1)
	assert.ErrorIs(t, err, ErrInvalidThreads)

	var nilPool *Pool
	assert.Equal(t, 1, nilPool.Size())
}

func TestRunBoundsConcurrency(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)

	var active, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Run(context.Background(), func() error {
				n := active.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunCancelled(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	go func() {
		_ = p.Run(context.Background(), func() error {
			<-release
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	err = p.Run(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestForEachVisitsAll(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)

	hits := make([]atomic.Int32, 50)
	err = ForEach(context.Background(), p, len(hits), func(_ context.Context, i int) error {
		hits[i].Add(1)
		return nil
	})
	require.NoError(t, err)
	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "item %d", i)
	}
}

func TestForEachFirstError(t *testing.T) {
	p, err := New(1)
	require.NoError(t, err)

	boom := errors.New("boom")
	var calls atomic.Int32
	err = ForEach(context.Background(), p, 20, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(20))
}

func TestForEachCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := ForEach(ctx, nil, 5, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}
