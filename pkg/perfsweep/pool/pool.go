// Package pool provides a fixed-size goroutine pool with an unbounded FIFO
// queue. A pool is created for a single benchmark phase, fed every unit of
// work for that phase, then shut down and awaited before the next phase.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
)

var logger = logging.Get("pool")

var (
	// ErrShutdown is returned when work is submitted after Shutdown.
	ErrShutdown = errors.New("pool is shut down")

	// ErrTimeout is returned by AwaitTermination when workers are still
	// running after the wait bound.
	ErrTimeout = errors.New("pool did not terminate before timeout")

	// ErrTaskPanic wraps a panic recovered from a unit of work.
	ErrTaskPanic = errors.New("task panicked")
)

// Task is a unit of work executed by a pool worker.
type Task func()

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Execution order relative to submission is not guaranteed once more than
// one worker is running.
type Pool struct {
	size int

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Task
	shutdown bool

	wg   sync.WaitGroup
	done chan struct{}
}

// New starts a pool with size workers. Sizes below one are raised to one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		size: size,
		done: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues a task. It never blocks on queue capacity.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return ErrShutdown
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
	return nil
}

// Shutdown stops the pool from accepting new work. Tasks already queued are
// still executed. It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// AwaitTermination blocks until every worker has exited after Shutdown, or
// until timeout elapses. A non-positive timeout waits indefinitely.
func (p *Pool) AwaitTermination(timeout time.Duration) error {
	if timeout <= 0 {
		<-p.done
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w (%s, %d tasks queued)", ErrTimeout, timeout, p.Pending())
	}
}

// ShutdownAndWait is Shutdown followed by AwaitTermination.
func (p *Pool) ShutdownAndWait(timeout time.Duration) error {
	p.Shutdown()
	return p.AwaitTermination(timeout)
}

// ShutdownNow stops the pool and discards every queued task that no worker
// has picked up yet. Tasks already running are not interrupted. It returns
// the number of tasks discarded.
func (p *Pool) ShutdownNow() int {
	p.mu.Lock()
	p.shutdown = true
	dropped := len(p.queue)
	clear(p.queue)
	p.queue = nil
	p.mu.Unlock()
	p.cond.Broadcast()

	if dropped > 0 {
		logger.Debug("queued tasks discarded", "count", dropped)
	}
	return dropped
}

// Abandon is used once a bounded wait has failed: it discards the queue and
// then blocks until the tasks still running have returned, so nothing
// started by this pool outlives the call.
func (p *Pool) Abandon() int {
	dropped := p.ShutdownNow()
	<-p.done
	return dropped
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		task, ok := p.next()
		if !ok {
			return
		}
		runTask(task)
	}
}

// next blocks until a task is available or the pool is drained after shutdown.
func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		if p.shutdown {
			return nil, false
		}
		p.cond.Wait()
	}

	task := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return task, true
}

// runTask keeps a panicking task from killing its worker.
func runTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "panic", r)
		}
	}()
	task()
}
