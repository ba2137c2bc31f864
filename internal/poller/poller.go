// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/elster-bridge/internal/elster"
	"github.com/tamzrod/elster-bridge/internal/status"
)

// Reader is the exact contract the poller needs from the protocol
// engine: issue a one-shot correlated read, or drop a pending one.
type Reader interface {
	Read(memberIdx int, index uint16, cb func(elster.Value)) error
	Cancel(memberIdx int, index uint16)
}

// Config is the immutable poller configuration.
type Config struct {
	Tiers map[Tier]TierConfig
	Tasks []TaskConfig

	// ReapAfter is the age at which Stats discards an in-flight
	// correlator that never saw a response.
	ReapAfter time.Duration
}

// Poller schedules periodic reads per priority tier with jitter.
// It is tick-driven: Tick is expected roughly once per second and
// never blocks on the bus. Response accounting happens later on the
// engine's receive path, so all task state lives under one mutex.
type Poller struct {
	rd  Reader
	cfg Config
	log zerolog.Logger

	mu       sync.Mutex
	tasks    []*task
	inflight map[taskKey]time.Time
	rng      *rand.Rand
	now      func() time.Time
}

func New(cfg Config, rd Reader, log zerolog.Logger) (*Poller, error) {
	if rd == nil {
		return nil, errors.New("poller: reader required")
	}
	if len(cfg.Tasks) == 0 {
		return nil, errors.New("poller: at least one poll task required")
	}
	if cfg.ReapAfter <= 0 {
		cfg.ReapAfter = 60 * time.Second
	}
	if cfg.Tiers == nil {
		cfg.Tiers = DefaultTiers()
	}
	for tier, tc := range cfg.Tiers {
		if tc.Interval <= 0 {
			return nil, fmt.Errorf("poller: tier %q interval must be > 0", tier)
		}
	}

	p := &Poller{
		rd:       rd,
		cfg:      cfg,
		log:      log,
		inflight: make(map[taskKey]time.Time),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, tc := range cfg.Tasks {
		if _, ok := cfg.Tiers[tc.Tier]; !ok {
			return nil, fmt.Errorf("poller: task %q references unknown tier %q", tc.SignalName, tc.Tier)
		}
		p.tasks = append(p.tasks, &task{cfg: tc})
	}
	return p, nil
}

// Tick issues reads for every task that has come due. The poll
// counter and last-poll time advance regardless of send success, so a
// flapping transport cannot turn into a request storm.
func (p *Poller) Tick() {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.tasks {
		t := t
		if now.Before(t.nextDue) && !t.lastPoll.IsZero() {
			continue
		}

		k := taskKey{member: t.cfg.MemberIndex, index: t.cfg.SignalIndex}

		// Drop a stacked correlator for this target before issuing a
		// fresh read, so a late response cannot be misattributed to
		// the new poll cycle.
		if _, stale := p.inflight[k]; stale {
			p.rd.Cancel(k.member, k.index)
			delete(p.inflight, k)
		}

		p.inflight[k] = now
		err := p.rd.Read(k.member, k.index, func(v elster.Value) {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.inflight, k)
			t.responseCount++
			t.lastResponse = p.now()
		})

		t.pollCount++
		t.lastPoll = now
		t.nextDue = now.Add(p.cfg.Tiers[t.cfg.Tier].Interval + p.jitter(t.cfg.Tier))

		if err != nil {
			delete(p.inflight, k)
			p.log.Warn().Err(err).Str("signal", t.cfg.SignalName).Int("member", k.member).Msg("poll failed")
		}
	}
}

// jitter draws a uniform offset in [-j, +j] for the tier.
func (p *Poller) jitter(tier Tier) time.Duration {
	tc := p.cfg.Tiers[tier]
	j := tc.JitterFixed
	if j == 0 {
		j = time.Duration(tc.JitterFraction * float64(tc.Interval))
	}
	if j <= 0 {
		return 0
	}
	return time.Duration((p.rng.Float64()*2 - 1) * float64(j))
}

// Stats reports the polling counters and, as a side effect, reaps any
// in-flight correlator older than ReapAfter. An offline member or bus
// noise would otherwise leak its pending request forever.
func (p *Poller) Stats() status.Snapshot {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	for k, issued := range p.inflight {
		if now.Sub(issued) > p.cfg.ReapAfter {
			p.rd.Cancel(k.member, k.index)
			delete(p.inflight, k)
		}
	}

	snap := status.Snapshot{TotalSignals: len(p.tasks)}
	for _, t := range p.tasks {
		switch {
		case t.responseCount > 0:
			snap.ResponsiveSignals++
		case t.pollCount > 0:
			snap.SilentSignals = append(snap.SilentSignals, taskLabel(t.cfg))
		}
	}
	return snap
}

func taskLabel(tc TaskConfig) string {
	if tc.SignalName != "" {
		return tc.SignalName
	}
	return fmt.Sprintf("0x%04X", tc.SignalIndex)
}
