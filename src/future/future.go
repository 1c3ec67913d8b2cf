// Package future runs fetches in the background and joins their results.
package future

import "context"

type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn in its own goroutine.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result must only be called after Done is closed.
func (f *Future[T]) Result() (T, error) {
	return f.value, f.err
}

func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Join waits for both futures and fails as soon as either of them fails.
// The other future keeps running and its result is dropped.
func Join[A, B any](ctx context.Context, a *Future[A], b *Future[B]) (A, B, error) {
	var zeroA A
	var zeroB B
	aDone, bDone := a.Done(), b.Done()
	for aDone != nil || bDone != nil {
		select {
		case <-aDone:
			if _, err := a.Result(); err != nil {
				return zeroA, zeroB, err
			}
			aDone = nil
		case <-bDone:
			if _, err := b.Result(); err != nil {
				return zeroA, zeroB, err
			}
			bDone = nil
		case <-ctx.Done():
			return zeroA, zeroB, ctx.Err()
		}
	}
	aValue, _ := a.Result()
	bValue, _ := b.Result()
	return aValue, bValue, nil
}
