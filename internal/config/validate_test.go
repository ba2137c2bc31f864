// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func base() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Bus: BusConfig{Driver: "socketcan", Interface: "can0"},
			Members: []MemberConfig{
				{Name: "HACLIENT", Addr: 0x680},
				{Name: "BOILER", Addr: 0x180, ReadID: [2]byte{0x31, 0x00}},
			},
			Poll: PollConfig{
				Intervals: map[string]int{"high": 60},
				Groups: map[string][]PollTarget{
					"high": {{Signal: "OUTSIDE_TEMP", Member: "BOILER"}},
				},
			},
		},
	}
}

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := base()
	cfg.Bridge.Bus.Driver = "profibus"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected driver error, got nil")
	}
}

func TestValidate_SlcanRequiresPort(t *testing.T) {
	cfg := base()
	cfg.Bridge.Bus.Driver = "slcan"
	cfg.Bridge.Bus.Port = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected port error, got nil")
	}

	cfg.Bridge.Bus.Port = "/dev/ttyACM0"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateMemberName(t *testing.T) {
	cfg := base()
	cfg.Bridge.Members = append(cfg.Bridge.Members, MemberConfig{Name: "BOILER", Addr: 0x500})
	if err := Validate(cfg); err == nil {
		t.Fatal("expected duplicate-name error, got nil")
	}
}

func TestValidate_DuplicateMemberAddr(t *testing.T) {
	cfg := base()
	cfg.Bridge.Members = append(cfg.Bridge.Members, MemberConfig{Name: "MIXER", Addr: 0x180})
	if err := Validate(cfg); err == nil {
		t.Fatal("expected duplicate-addr error, got nil")
	}
}

func TestValidate_BadTier(t *testing.T) {
	cfg := base()
	cfg.Bridge.Poll.Intervals["turbo"] = 5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected tier error, got nil")
	}
}

func TestValidate_NonPositiveInterval(t *testing.T) {
	cfg := base()
	cfg.Bridge.Poll.Intervals["high"] = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected interval error, got nil")
	}
}

func TestValidate_JitterFractionRange(t *testing.T) {
	cfg := base()
	cfg.Bridge.Poll.JitterFraction = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected jitter error, got nil")
	}
}

func TestValidate_IncompletePollTarget(t *testing.T) {
	cfg := base()
	cfg.Bridge.Poll.Groups["high"] = []PollTarget{{Signal: "OUTSIDE_TEMP"}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected poll target error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("empty config must validate: %v", err)
	}
	Normalize(cfg)

	b := cfg.Bridge
	if b.Bus.Driver != "socketcan" || b.Bus.Interface != "can0" {
		t.Errorf("bus defaults: %+v", b.Bus)
	}
	if len(b.Members) == 0 {
		t.Fatal("default member table not applied")
	}
	if b.Members[0].Name != "HACLIENT" || b.Bus.ClientMember != "HACLIENT" {
		t.Errorf("client member default: %q / %q", b.Members[0].Name, b.Bus.ClientMember)
	}
	if b.Poll.Intervals["high"] != 60 || b.Poll.Intervals["medium"] != 300 || b.Poll.Intervals["low"] != 900 {
		t.Errorf("interval defaults: %v", b.Poll.Intervals)
	}
	if b.Poll.JitterFraction != 0.1 {
		t.Errorf("jitter default: %v", b.Poll.JitterFraction)
	}
	if b.Poll.ReapSeconds != 60 {
		t.Errorf("reap default: %v", b.Poll.ReapSeconds)
	}
	if b.Filter.TimeoutSeconds != 300 {
		t.Errorf("filter timeout default: %v", b.Filter.TimeoutSeconds)
	}
	if b.Mqtt.TopicPrefix != "elster" {
		t.Errorf("topic prefix default: %q", b.Mqtt.TopicPrefix)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := base()
	cfg.Bridge.Poll.JitterSeconds = 5
	Normalize(cfg)
	if cfg.Bridge.Poll.JitterFraction != 0 {
		t.Errorf("fixed jitter must suppress the fraction default, got %v", cfg.Bridge.Poll.JitterFraction)
	}
	if cfg.Bridge.Members[0].Name != "HACLIENT" {
		t.Errorf("explicit member table replaced: %+v", cfg.Bridge.Members[0])
	}
}
