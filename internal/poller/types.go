// internal/poller/types.go
package poller

import "time"

// Tier is a polling-frequency class.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierConfig holds one tier's base interval and jitter policy.
// JitterFixed wins when set; otherwise JitterFraction of the interval
// is used.
type TierConfig struct {
	Interval       time.Duration
	JitterFraction float64
	JitterFixed    time.Duration
}

// DefaultTiers returns the stock 60s/300s/900s schedule with 10% jitter.
func DefaultTiers() map[Tier]TierConfig {
	return map[Tier]TierConfig{
		TierHigh:   {Interval: 60 * time.Second, JitterFraction: 0.1},
		TierMedium: {Interval: 300 * time.Second, JitterFraction: 0.1},
		TierLow:    {Interval: 900 * time.Second, JitterFraction: 0.1},
	}
}

// TaskConfig is one scheduled (signal, member) read.
type TaskConfig struct {
	Tier        Tier
	SignalIndex uint16
	SignalName  string
	MemberIndex int
}

// task carries the per-task runtime state, mutated for the process
// lifetime.
type task struct {
	cfg           TaskConfig
	nextDue       time.Time
	lastPoll      time.Time
	lastResponse  time.Time
	pollCount     uint64
	responseCount uint64
}

// taskKey identifies the at-most-one in-flight correlator per task
// target.
type taskKey struct {
	member int
	index  uint16
}
