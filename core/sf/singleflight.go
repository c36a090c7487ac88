package sf

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates concurrent calls with the same key. The zero value is
// ready to use.
type Group[T any] struct {
	group singleflight.Group
}

// Do runs fn unless a call for key is already in flight, in which case it
// waits for that call. shared reports whether the result was handed to more
// than one caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (v T, shared bool, err error) {
	out, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	if out != nil {
		v = out.(T)
	}
	return v, shared, err
}

// DoContext is like Do, but each caller stops waiting when its own ctx is
// done. fn gets a context that no single caller can cancel.
func (g *Group[T]) DoContext(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (v T, shared bool, err error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(flightCtx)
	})
	select {
	case res := <-ch:
		if res.Val != nil {
			v = res.Val.(T)
		}
		return v, res.Shared, res.Err
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// Forget makes the next Do for key run fn even if a call is in flight.
func (g *Group[T]) Forget(key string) { g.group.Forget(key) }
