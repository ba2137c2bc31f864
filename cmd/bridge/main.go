// cmd/bridge/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/elster-bridge/internal/config"
	"github.com/tamzrod/elster-bridge/internal/elster"
	"github.com/tamzrod/elster-bridge/internal/engine"
	"github.com/tamzrod/elster-bridge/internal/filter"
	"github.com/tamzrod/elster-bridge/internal/poller"
	"github.com/tamzrod/elster-bridge/internal/publish"
)

// statsEvery is how often poll statistics are collected and published.
// Collection also reaps stale in-flight correlators, so it must keep
// running even if nobody watches the status topic.
const statsEvery = 60 * time.Second

func main() {
	log := newLogger()

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: bridge <config.yaml>")
	}
	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)
	b := &cfg.Bridge

	signals, err := config.LoadSignals(b.SignalsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("signal catalog load failed")
	}
	cat, err := config.ToCatalog(signals)
	if err != nil {
		log.Fatal().Err(err).Msg("signal catalog build failed")
	}
	log.Info().Int("signals", cat.Len()).Int("members", len(b.Members)).Msg("catalog loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Bus transport
	// --------------------

	tr, err := openTransport(b.Bus)
	if err != nil {
		log.Fatal().Err(err).Msg("bus open failed")
	}
	defer tr.Close()

	// --------------------
	// Protocol engine
	// --------------------

	clientIdx, err := b.ClientIndex()
	if err != nil {
		log.Fatal().Err(err).Msg("client member lookup failed")
	}
	members := b.ToMembers()

	eng, err := engine.New(engine.Config{Members: members, Client: clientIdx}, cat, tr,
		log.With().Str("component", "engine").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("engine build failed")
	}

	// --------------------
	// Poller + filter
	// --------------------

	flt := filter.New(b.Filter.IgnoreUnsolicited, time.Duration(b.Filter.TimeoutSeconds)*time.Second)

	tasks, err := b.ToTasks(cat)
	if err != nil {
		log.Fatal().Err(err).Msg("poll schedule build failed")
	}
	pol, err := poller.New(poller.Config{
		Tiers:     b.ToTiers(),
		Tasks:     tasks,
		ReapAfter: time.Duration(b.Poll.ReapSeconds) * time.Second,
	}, &markingReader{eng: eng, flt: flt}, log.With().Str("component", "poller").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("poller build failed")
	}

	// --------------------
	// MQTT downstream
	// --------------------

	pub, err := publish.New(publish.Config{
		Broker:      b.Mqtt.Broker,
		ClientID:    b.Mqtt.ClientID,
		Username:    b.Mqtt.Username,
		Password:    b.Mqtt.Password,
		TopicPrefix: b.Mqtt.TopicPrefix,
	}, log.With().Str("component", "mqtt").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect failed")
	}
	defer pub.Close()

	memberNames := make(map[uint16]string, len(members))
	for _, m := range members {
		memberNames[m.Addr] = m.Name
	}

	// bus -> mqtt
	eng.AddHandler(func(index uint16, v elster.Value, addr uint16) {
		if !flt.Accept(index) {
			log.Debug().Uint16("index", index).Uint16("addr", addr).Msg("unsolicited value dropped")
			return
		}
		member := memberNames[addr]
		if member == "" {
			member = fmt.Sprintf("device_%x", addr)
		}
		signal := fmt.Sprintf("signal_%04x", index)
		if cat.Known(index) {
			def := cat.ByIndex(index)
			signal = def.DisplayName
			if signal == "" {
				signal = def.Name
			}
		}
		if err := pub.PublishValue(member, signal, v); err != nil {
			log.Warn().Err(err).Str("signal", signal).Msg("publish failed")
		}
	})

	// mqtt -> bus
	memberIdx := make(map[string]int, len(members))
	for i, m := range members {
		memberIdx[m.Name] = i
	}
	err = pub.SubscribeCommands(func(member, signal, payload string) error {
		mi, ok := memberIdx[member]
		if !ok {
			return fmt.Errorf("unknown member %q", member)
		}
		def := cat.ByName(signal)
		if def.Name != signal && def.DisplayName != signal {
			return fmt.Errorf("unknown signal %q", signal)
		}
		// Accept the write confirmation even with filtering on.
		flt.Mark(def.Index)
		return eng.Write(mi, def.Index, payload)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("command subscription failed")
	}

	// --------------------
	// Run loops
	// --------------------

	go eng.Run(ctx)
	go pol.Run(ctx)
	go func() {
		ticker := time.NewTicker(statsEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := pol.Stats()
				if err := pub.PublishStatus(snap); err != nil {
					log.Warn().Err(err).Msg("status publish failed")
				}
				log.Info().
					Int("total", snap.TotalSignals).
					Int("responsive", snap.ResponsiveSignals).
					Int("silent", len(snap.SilentSignals)).
					Msg("poll stats")
			}
		}
	}()

	log.Info().Str("driver", b.Bus.Driver).Msg("bridge running")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

// markingReader records every poll in the unsolicited filter before
// delegating to the engine, so the eventual response is expected.
type markingReader struct {
	eng *engine.Engine
	flt *filter.Filter
}

func (r *markingReader) Read(member int, index uint16, cb func(elster.Value)) error {
	r.flt.Mark(index)
	return r.eng.Read(member, index, cb)
}

func (r *markingReader) Cancel(member int, index uint16) {
	r.eng.Cancel(member, index)
}

func newLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if os.Getenv("BRIDGE_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "elster-bridge").Logger()
}
