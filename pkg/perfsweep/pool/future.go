package pool

import (
	"fmt"
)

// Future holds the eventual result of a unit of work submitted with Go.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go submits fn to the pool and returns a Future for its result. A panic
// inside fn is recovered and reported by Get as ErrTaskPanic. A task
// discarded by ShutdownNow never completes; callers that may abandon a pool
// should wait on Done together with their own deadline.
func Go[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}

	err := p.Submit(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
		}()
		f.value, f.err = fn()
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Get blocks until the unit of work has finished.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
