// Package util holds small concurrency helpers.
package util

import (
	"sync"
	"sync/atomic"
	"time"
)

// IdleTimer fires once no activity was recorded for its timeout.
//
// Touch only stores a timestamp, so it is cheap enough to call per frame. The
// underlying timer re-arms itself for the remaining time when it wakes up
// early.
//
//	idle := NewIdleTimer(time.Second)
//	defer idle.Stop()
//
//	for {
//	    select {
//	    case f := <-frames:
//	        idle.Touch()
//	        handle(f)
//	    case <-idle.Expired():
//	        return
//	    }
//	}
type IdleTimer struct {
	timeout time.Duration
	start   time.Time
	last    atomic.Int64

	mu      sync.Mutex
	timer   *time.Timer
	expired chan struct{}
	done    bool
}

// NewIdleTimer starts an IdleTimer; the timeout counts from now.
func NewIdleTimer(timeout time.Duration) *IdleTimer {
	t := &IdleTimer{
		timeout: timeout,
		start:   time.Now(),
		expired: make(chan struct{}),
	}
	t.mu.Lock()
	t.timer = time.AfterFunc(timeout, t.check)
	t.mu.Unlock()
	return t
}

// Touch records activity.
func (t *IdleTimer) Touch() {
	t.last.Store(int64(time.Since(t.start)))
}

// Expired is closed once the timer went idle. It is never closed after Stop.
func (t *IdleTimer) Expired() <-chan struct{} {
	return t.expired
}

// Idle is the time since the last activity.
func (t *IdleTimer) Idle() time.Duration {
	return time.Since(t.start) - time.Duration(t.last.Load())
}

// Stop releases the timer. It is safe to call more than once.
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	t.timer.Stop()
}

func (t *IdleTimer) check() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	if remaining := t.timeout - t.Idle(); remaining > 0 {
		t.timer.Reset(remaining)
		return
	}
	t.done = true
	close(t.expired)
}
