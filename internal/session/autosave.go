package session

import (
	"sync"
	"time"
)

// autosaver coalesces bursts of state changes into one save per quiet
// interval. Each touch restarts the timer; only the trailing edge fires.
type autosaver struct {
	mu       sync.Mutex
	interval time.Duration
	flush    func()
	timer    *time.Timer
	closed   bool
}

func newAutosaver(interval time.Duration, flush func()) *autosaver {
	return &autosaver{interval: interval, flush: flush}
}

func (a *autosaver) touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.interval <= 0 {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.interval, a.flush)
}

func (a *autosaver) close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
