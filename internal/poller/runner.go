// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run drives Tick at 1 Hz until ctx is cancelled. One goroutine.
// No overlap. No retries beyond what Tick itself does.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}
