package mirror

import (
	"context"
	"fmt"
	"sync"
	"time"

	"charity-workflow-backend/internal/logger"
)

// Dispatcher runs mirror calls in the background. A call never blocks or
// fails the caller; its outcome is only logged. Calls reach the remote in
// the order they were scheduled, so an approval never overtakes the
// creation it depends on.
type Dispatcher struct {
	reach      *Reachability
	timeout    time.Duration
	maxPending int
	wg         sync.WaitGroup

	mu      sync.Mutex
	tail    chan struct{}
	pending int
}

// DefaultMaxPending bounds the backlog of mirror calls waiting on a slow
// remote. Calls beyond it are dropped and logged.
const DefaultMaxPending = 256

type DispatcherOption func(*Dispatcher)

// WithMaxPending overrides DefaultMaxPending. Values below 1 keep the default.
func WithMaxPending(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxPending = n
		}
	}
}

func NewDispatcher(reach *Reachability, timeout time.Duration, opts ...DispatcherOption) *Dispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	d := &Dispatcher{reach: reach, timeout: timeout, maxPending: DefaultMaxPending}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Go schedules fn under op. The call runs detached from ctx cancellation
// and is bounded by the dispatcher timeout.
func (d *Dispatcher) Go(ctx context.Context, op string, fn func(ctx context.Context) error) {
	base := context.WithoutCancel(ctx)

	d.mu.Lock()
	if d.pending >= d.maxPending {
		backlog := d.pending
		d.mu.Unlock()
		logger.Warn("Mirror backlog full, dropping call", "operation", op, "pending", backlog)
		return
	}
	d.pending++
	prev := d.tail
	done := make(chan struct{})
	d.tail = done
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			d.pending--
			d.mu.Unlock()
			close(done)
		}()
		if prev != nil {
			<-prev
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Mirror call panicked", "operation", op, "panic", fmt.Sprint(r))
			}
		}()

		if !d.reach.Reachable(base) {
			logger.Debug("Remote unreachable, skipping mirror call", "operation", op)
			return
		}

		callCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		logger.RemoteCall(op)
		err := fn(callCtx)
		logger.RemoteResult(op, err)
	}()
}

// Pending reports how many calls are queued or running.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Wait blocks until every scheduled call has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
