// internal/filter/filter.go
package filter

import (
	"sync"
	"time"
)

// Filter decides whether a received signal value was expected, i.e.
// polled or commanded recently enough. Unexpected values are dropped
// by the caller; dropping is policy, not an error.
//
// Marked from the poller tick and the command path, consulted from
// the receive path, so the window map lives under a mutex.
type Filter struct {
	enabled bool
	timeout time.Duration

	mu   sync.Mutex
	seen map[uint16]time.Time
	now  func() time.Time
}

// DefaultTimeout is how long a poll or command keeps a signal expected.
const DefaultTimeout = 300 * time.Second

// New creates a filter. A disabled filter accepts everything.
func New(enabled bool, timeout time.Duration) *Filter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Filter{
		enabled: enabled,
		timeout: timeout,
		seen:    make(map[uint16]time.Time),
		now:     time.Now,
	}
}

// Mark records that a signal was just polled or commanded, refreshing
// its acceptance window.
func (f *Filter) Mark(index uint16) {
	if !f.enabled {
		return
	}
	f.mu.Lock()
	f.seen[index] = f.now()
	f.mu.Unlock()
}

// Accept reports whether a received value for index should be
// forwarded downstream.
func (f *Filter) Accept(index uint16) bool {
	if !f.enabled {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.seen[index]
	if !ok {
		return false
	}
	if f.now().Sub(at) > f.timeout {
		delete(f.seen, index)
		return false
	}
	return true
}
