// internal/config/convert.go
package config

import (
	"fmt"
	"time"

	"github.com/tamzrod/elster-bridge/internal/elster"
	"github.com/tamzrod/elster-bridge/internal/poller"
)

// Conversion from declarative config into the runtime types the core
// components consume. Runs once at startup, after Normalize.

// Members converts the member table.
func (b *BridgeConfig) ToMembers() []elster.Member {
	out := make([]elster.Member, 0, len(b.Members))
	for _, m := range b.Members {
		out = append(out, elster.Member{
			Name:      m.Name,
			Addr:      m.Addr,
			ReadID:    m.ReadID,
			WriteID:   m.WriteID,
			ConfirmID: m.ConfirmID,
		})
	}
	return out
}

// ClientIndex resolves bus.client_member against the member table.
func (b *BridgeConfig) ClientIndex() (int, error) {
	for i, m := range b.Members {
		if m.Name == b.Bus.ClientMember {
			return i, nil
		}
	}
	return 0, fmt.Errorf("config: client member %q not in member table", b.Bus.ClientMember)
}

// ToCatalog builds the signal catalog from the loaded signal file.
func ToCatalog(signals []SignalConfig) (*elster.Catalog, error) {
	defs := make([]elster.SignalDefinition, 0, len(signals))
	for _, s := range signals {
		t, err := elster.ParseValueType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("config: signal %q: %w", s.Name, err)
		}
		defs = append(defs, elster.SignalDefinition{
			Index:       s.Index,
			Name:        s.Name,
			DisplayName: s.EnglishName,
			Type:        t,
		})
	}
	return elster.NewCatalog(defs)
}

// ToTiers converts the per-tier schedule.
func (b *BridgeConfig) ToTiers() map[poller.Tier]poller.TierConfig {
	tiers := make(map[poller.Tier]poller.TierConfig, len(b.Poll.Intervals))
	for name, secs := range b.Poll.Intervals {
		tiers[poller.Tier(name)] = poller.TierConfig{
			Interval:       time.Duration(secs) * time.Second,
			JitterFraction: b.Poll.JitterFraction,
			JitterFixed:    time.Duration(b.Poll.JitterSeconds) * time.Second,
		}
	}
	return tiers
}

// ToTasks resolves the poll groups against the catalog and member
// table. Unknown signals or members are configuration errors, not
// runtime surprises.
func (b *BridgeConfig) ToTasks(cat *elster.Catalog) ([]poller.TaskConfig, error) {
	memberIdx := make(map[string]int, len(b.Members))
	for i, m := range b.Members {
		memberIdx[m.Name] = i
	}

	var tasks []poller.TaskConfig
	for tier, targets := range b.Poll.Groups {
		for _, tgt := range targets {
			def := cat.ByName(tgt.Signal)
			if def.Name != tgt.Signal && def.DisplayName != tgt.Signal {
				return nil, fmt.Errorf("config: poll target references unknown signal %q", tgt.Signal)
			}
			mi, ok := memberIdx[tgt.Member]
			if !ok {
				return nil, fmt.Errorf("config: poll target references unknown member %q", tgt.Member)
			}
			tasks = append(tasks, poller.TaskConfig{
				Tier:        poller.Tier(tier),
				SignalIndex: def.Index,
				SignalName:  displayName(def),
				MemberIndex: mi,
			})
		}
	}
	return tasks, nil
}

func displayName(def elster.SignalDefinition) string {
	if def.DisplayName != "" {
		return def.DisplayName
	}
	return def.Name
}
