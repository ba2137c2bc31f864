// internal/config/normalize.go
package config

import "github.com/tamzrod/elster-bridge/internal/elster"

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	b := &cfg.Bridge

	if b.Bus.Driver == "" {
		b.Bus.Driver = "socketcan"
	}
	if b.Bus.Driver == "socketcan" && b.Bus.Interface == "" {
		b.Bus.Interface = "can0"
	}
	if b.Bus.Baud == 0 {
		b.Bus.Baud = 115200
	}
	if b.Bus.ClientMember == "" {
		b.Bus.ClientMember = elster.DefaultMembers[0].Name
	}

	// Empty member table means the controller family's stock one.
	if len(b.Members) == 0 {
		for _, m := range elster.DefaultMembers {
			b.Members = append(b.Members, MemberConfig{
				Name:      m.Name,
				Addr:      m.Addr,
				ReadID:    m.ReadID,
				WriteID:   m.WriteID,
				ConfirmID: m.ConfirmID,
			})
		}
	}

	if b.Poll.Intervals == nil {
		b.Poll.Intervals = map[string]int{}
	}
	applyDefault(b.Poll.Intervals, "high", 60)
	applyDefault(b.Poll.Intervals, "medium", 300)
	applyDefault(b.Poll.Intervals, "low", 900)
	if b.Poll.JitterFraction == 0 && b.Poll.JitterSeconds == 0 {
		b.Poll.JitterFraction = 0.1
	}
	if b.Poll.ReapSeconds == 0 {
		b.Poll.ReapSeconds = 60
	}

	if b.Filter.TimeoutSeconds == 0 {
		b.Filter.TimeoutSeconds = 300
	}

	if b.Mqtt.ClientID == "" {
		b.Mqtt.ClientID = "elster-bridge"
	}
	if b.Mqtt.TopicPrefix == "" {
		b.Mqtt.TopicPrefix = "elster"
	}
}

func applyDefault(m map[string]int, key string, value int) {
	if m[key] == 0 {
		m[key] = value
	}
}
