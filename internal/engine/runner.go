// internal/engine/runner.go
package engine

import (
	"context"
	"time"
)

// Run reads frames from the transport until ctx is cancelled.
// Receive errors are logged and retried after a short pause; the bus
// staying up is the poller's problem, not this loop's.
func (e *Engine) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		fr, err := e.tr.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.log.Warn().Err(err).Msg("receive failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		e.OnFrame(fr.Addr, fr.Data)
	}
}
