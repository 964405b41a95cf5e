// Package mirror replays local writes against a remote instance without
// ever letting the remote affect the local result.
package mirror

import (
	"context"
	"sync"
	"time"

	"charity-workflow-backend/internal/logger"

	"golang.org/x/sync/singleflight"
)

// HealthChecker probes the remote.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Reachability caches whether the remote answered its health check. With a
// zero TTL the first result is kept for the life of the process.
type Reachability struct {
	checker HealthChecker
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	known     bool
	reachable bool
	checkedAt time.Time

	group singleflight.Group
}

func NewReachability(checker HealthChecker, ttl, timeout time.Duration) *Reachability {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Reachability{checker: checker, ttl: ttl, timeout: timeout, now: time.Now}
}

func (r *Reachability) cached() (reachable, fresh bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.known {
		return false, false
	}
	if r.ttl > 0 && r.now().Sub(r.checkedAt) >= r.ttl {
		return r.reachable, false
	}
	return r.reachable, true
}

// Reachable returns the cached answer, probing the remote when none is
// fresh. Concurrent probes share one health call.
func (r *Reachability) Reachable(ctx context.Context) bool {
	if ok, fresh := r.cached(); fresh {
		return ok
	}
	v, _, _ := r.group.Do("health", func() (any, error) {
		if ok, fresh := r.cached(); fresh {
			return ok, nil
		}
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		err := r.checker.Health(checkCtx)
		ok := err == nil
		if err != nil {
			logger.Warn("Remote health check failed", "error", err)
		} else {
			logger.Debug("Remote health check succeeded")
		}
		r.Set(ok)
		return ok, nil
	})
	return v.(bool)
}

// Set records a reachability answer as if a health check had just run.
func (r *Reachability) Set(reachable bool) {
	r.mu.Lock()
	r.known = true
	r.reachable = reachable
	r.checkedAt = r.now()
	r.mu.Unlock()
}

// Invalidate forgets the cached answer so the next call probes again.
func (r *Reachability) Invalidate() {
	r.mu.Lock()
	r.known = false
	r.mu.Unlock()
}
