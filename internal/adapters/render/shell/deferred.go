package shell

import (
	"context"
	"fmt"
	"sync"
)

// Deferred is a one-shot future. The loader runs at most once, on its own
// goroutine, and the completion callback given to Start fires exactly once.
// A loader panic completes the future with an error.
type Deferred[T any] struct {
	load func() (T, error)

	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func Defer[T any](load func() (T, error)) *Deferred[T] {
	return &Deferred[T]{load: load, done: make(chan struct{})}
}

// Start launches the loader. It reports false, and ignores onDone, when the
// loader was already started.
func (d *Deferred[T]) Start(onDone func(T, error)) bool {
	started := false
	d.once.Do(func() {
		started = true
		go func() {
			d.value, d.err = d.run()
			close(d.done)
			if onDone != nil {
				onDone(d.value, d.err)
			}
		}()
	})
	return started
}

func (d *Deferred[T]) run() (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var zero T
			value, err = zero, fmt.Errorf("loader panicked: %v", recovered)
		}
	}()
	return d.load()
}

// Await blocks until the loader finished or ctx is done.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (d *Deferred[T]) Ready() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}
