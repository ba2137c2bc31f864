// internal/status/snapshot.go
package status

// Snapshot represents exactly what the poller is willing to report.
// It contains no logic and no memory beyond the current counters.
type Snapshot struct {
	TotalSignals      int      `json:"total_signals"`
	ResponsiveSignals int      `json:"responsive_signals"`
	SilentSignals     []string `json:"silent_signals,omitempty"`
}
