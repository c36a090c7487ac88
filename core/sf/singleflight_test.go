package sf

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

func TestGroup_Do(t *testing.T) {
	var g Group[int]
	v, shared, err := g.Do("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	require.False(t, shared)
	require.Equal(t, 7, v)

	_, _, err = g.Do("a", func() (int, error) { return 0, errors.New("boom") })
	require.EqualError(t, err, "boom")
}

func TestGroup_Do_deduplicates(t *testing.T) {
	var (
		g       Group[string]
		calls   atomic.Int32
		release = make(chan struct{})
		wg      sync.WaitGroup
	)

	results := make([]string, 5)
	do := func(i int) {
		defer wg.Done()
		v, _, err := g.Do("key", func() (string, error) {
			calls.Add(1)
			<-release
			return "value", nil
		})
		assert.NoError(t, err)
		results[i] = v
	}

	wg.Add(len(results))
	go do(0)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	for i := 1; i < len(results); i++ {
		go do(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, "value", v)
	}
}

func TestGroup_DoContext_callerCancelDoesNotFailOthers(t *testing.T) {
	var (
		g       Group[string]
		calls   atomic.Int32
		release = make(chan struct{})
	)
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		select {
		case <-release:
			return "value", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	first, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := g.DoContext(first, "key", fn)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan string, 1)
	go func() {
		v, _, err := g.DoContext(t.Context(), "key", fn)
		assert.NoError(t, err)
		second <- v
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.Equal(t, "value", <-second)
	require.Equal(t, int32(1), calls.Load())
}
