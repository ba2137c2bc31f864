// internal/config/validate.go
package config

import "fmt"

var validTiers = map[string]bool{"high": true, "medium": true, "low": true}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	b := &cfg.Bridge

	// ------------------------------------------------------------
	// BUS DRIVER
	// ------------------------------------------------------------

	switch b.Bus.Driver {
	case "", "socketcan":
		// interface defaulted by Normalize
	case "slcan":
		if b.Bus.Port == "" {
			return fmt.Errorf("config: slcan driver requires bus.port")
		}
	default:
		return fmt.Errorf("config: unknown bus driver %q", b.Bus.Driver)
	}

	// ------------------------------------------------------------
	// MEMBER TABLE (optional; defaults applied by Normalize)
	// ------------------------------------------------------------

	names := make(map[string]bool)
	addrs := make(map[uint16]string)
	for _, m := range b.Members {
		if m.Name == "" {
			return fmt.Errorf("config: member with addr 0x%X has no name", m.Addr)
		}
		if names[m.Name] {
			return fmt.Errorf("config: duplicate member name %q", m.Name)
		}
		names[m.Name] = true
		if prev, taken := addrs[m.Addr]; taken {
			return fmt.Errorf("config: members %q and %q share bus address 0x%X", prev, m.Name, m.Addr)
		}
		addrs[m.Addr] = m.Name
	}

	// ------------------------------------------------------------
	// POLL SCHEDULE
	// ------------------------------------------------------------

	for tier, secs := range b.Poll.Intervals {
		if !validTiers[tier] {
			return fmt.Errorf("config: unknown poll tier %q", tier)
		}
		if secs <= 0 {
			return fmt.Errorf("config: poll interval for tier %q must be > 0", tier)
		}
	}
	if b.Poll.JitterFraction < 0 || b.Poll.JitterFraction > 1 {
		return fmt.Errorf("config: jitter_fraction %v out of range [0,1]", b.Poll.JitterFraction)
	}
	if b.Poll.JitterSeconds < 0 {
		return fmt.Errorf("config: jitter_seconds must be >= 0")
	}
	for tier, targets := range b.Poll.Groups {
		if !validTiers[tier] {
			return fmt.Errorf("config: unknown poll group tier %q", tier)
		}
		for _, tgt := range targets {
			if tgt.Signal == "" || tgt.Member == "" {
				return fmt.Errorf("config: poll target in tier %q needs signal and member", tier)
			}
		}
	}

	// ------------------------------------------------------------
	// FILTER
	// ------------------------------------------------------------

	if b.Filter.TimeoutSeconds < 0 {
		return fmt.Errorf("config: filter timeout_seconds must be >= 0")
	}

	return nil
}
