// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/elster-bridge/internal/bus"
	"github.com/tamzrod/elster-bridge/internal/elster"
)

// Handler observes every successfully decoded incoming value,
// independent of request correlation.
type Handler func(index uint16, value elster.Value, addr uint16)

// Callback resolves one read request with its decoded value.
// Declared as an alias so consumer-side interfaces can spell the
// literal func type and still be satisfied by *Engine.
type Callback = func(value elster.Value)

type key struct {
	addr  uint16
	index uint16
}

type pending struct {
	issued time.Time
	cb     Callback
}

// Engine frames requests, parses responses, correlates pending
// requests, and dispatches decoded values to observers.
//
// The pending table and handler list are shared between the receive
// loop and whoever issues requests, so both live under one mutex.
// At most one pending request exists per (address, index); a new
// registration evicts the old one without invoking its callback.
type Engine struct {
	tr      bus.Transport
	cat     *elster.Catalog
	members []elster.Member
	client  int
	log     zerolog.Logger

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
	pend     map[key]pending
	latest   map[key]elster.Value
}

// Config carries the immutable inputs for an Engine.
type Config struct {
	Members []elster.Member
	Client  int // index of the member used to source outgoing frames
}

func New(cfg Config, cat *elster.Catalog, tr bus.Transport, log zerolog.Logger) (*Engine, error) {
	if len(cfg.Members) == 0 {
		return nil, errors.New("engine: at least one bus member required")
	}
	if cfg.Client < 0 || cfg.Client >= len(cfg.Members) {
		return nil, fmt.Errorf("engine: client member index %d out of range", cfg.Client)
	}
	if cat == nil {
		return nil, errors.New("engine: signal catalog required")
	}
	return &Engine{
		tr:       tr,
		cat:      cat,
		members:  cfg.Members,
		client:   cfg.Client,
		log:      log,
		handlers: make(map[int]Handler),
		pend:     make(map[key]pending),
		latest:   make(map[key]elster.Value),
	}, nil
}

// Members returns the configured member table.
func (e *Engine) Members() []elster.Member { return e.members }

// AddHandler registers a global observer and returns its id.
func (e *Engine) AddHandler(h Handler) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.handlers[id] = h
	return id
}

// RemoveHandler deregisters a previously added observer.
func (e *Engine) RemoveHandler(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers, id)
}

func (e *Engine) member(idx int) (elster.Member, error) {
	if idx < 0 || idx >= len(e.members) {
		return elster.Member{}, fmt.Errorf("engine: member index %d out of range", idx)
	}
	return e.members[idx], nil
}

// Read sends a read request for one signal. If cb is non-nil it is
// registered to receive the decoded response; a prior callback for the
// same (address, index) is evicted and never invoked. The pending
// entry is in place before the frame goes out, so a late response
// cannot land on a stale correlator.
func (e *Engine) Read(memberIdx int, index uint16, cb Callback) error {
	m, err := e.member(memberIdx)
	if err != nil {
		return err
	}
	if !e.cat.Known(index) {
		return fmt.Errorf("engine: unknown signal index 0x%04X", index)
	}

	k := key{addr: m.Addr, index: index}
	if cb != nil {
		e.mu.Lock()
		e.pend[k] = pending{issued: time.Now(), cb: cb}
		e.mu.Unlock()
	}

	payload := elster.BuildRead(m, index)
	if err := e.tr.Send(e.members[e.client].Addr, payload); err != nil {
		if cb != nil {
			e.mu.Lock()
			delete(e.pend, k)
			e.mu.Unlock()
		}
		e.log.Warn().Err(err).Uint16("index", index).Str("member", m.Name).Msg("read send failed")
		return err
	}
	e.log.Debug().Uint16("index", index).Str("member", m.Name).Msg("read issued")
	return nil
}

// Write encodes and sends a write request, then issues a best-effort
// read of the same signal to self-confirm. The confirmation is not
// awaited and its failure does not undo the write's success.
func (e *Engine) Write(memberIdx int, index uint16, value string) error {
	m, err := e.member(memberIdx)
	if err != nil {
		return err
	}
	def := e.cat.ByIndex(index)
	if !e.cat.Known(index) {
		return fmt.Errorf("engine: unknown signal index 0x%04X", index)
	}

	raw, err := elster.Encode(value, def.Type)
	if err != nil {
		return err
	}

	payload := elster.BuildWrite(m, index, raw)
	if err := e.tr.Send(e.members[e.client].Addr, payload); err != nil {
		e.log.Warn().Err(err).Uint16("index", index).Str("member", m.Name).Msg("write send failed")
		return err
	}
	e.log.Debug().Uint16("index", index).Str("member", m.Name).Str("value", value).Msg("write issued")

	if err := e.Read(memberIdx, index, nil); err != nil {
		e.log.Warn().Err(err).Uint16("index", index).Msg("write confirmation read failed")
	}
	return nil
}

// Cancel drops the pending request for (member, index), if any,
// without invoking its callback.
func (e *Engine) Cancel(memberIdx int, index uint16) {
	m, err := e.member(memberIdx)
	if err != nil {
		return
	}
	e.mu.Lock()
	delete(e.pend, key{addr: m.Addr, index: index})
	e.mu.Unlock()
}

// Latest returns the last decoded value seen for (member, index).
func (e *Engine) Latest(memberIdx int, index uint16) (elster.Value, bool) {
	m, err := e.member(memberIdx)
	if err != nil {
		return elster.Value{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.latest[key{addr: m.Addr, index: index}]
	return v, ok
}

// OnFrame processes one incoming bus frame. Malformed payloads are
// dropped silently. A matching pending callback fires exactly once;
// every global handler fires regardless of correlation. A panicking
// callback is contained and logged without stopping delivery.
func (e *Engine) OnFrame(addr uint16, payload []byte) {
	index, raw, ok := elster.ParsePayload(payload)
	if !ok {
		e.log.Debug().Uint16("addr", addr).Int("len", len(payload)).Msg("short frame dropped")
		return
	}

	def := e.cat.ByIndex(index)
	value := elster.Decode(raw, def.Type)

	k := key{addr: addr, index: index}
	e.mu.Lock()
	e.latest[k] = value
	p, matched := e.pend[k]
	if matched {
		delete(e.pend, k)
	}
	hs := make([]Handler, 0, len(e.handlers))
	for _, h := range e.handlers {
		hs = append(hs, h)
	}
	e.mu.Unlock()

	e.log.Debug().Uint16("addr", addr).Uint16("index", index).Stringer("value", value).Msg("frame")

	if matched && p.cb != nil {
		e.safely(func() { p.cb(value) })
	}
	for _, h := range hs {
		h := h
		e.safely(func() { h(index, value, addr) })
	}
}

func (e *Engine) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("handler panic recovered")
		}
	}()
	fn()
}
