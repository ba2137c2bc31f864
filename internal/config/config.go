// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Bus         BusConfig      `yaml:"bus"`
	SignalsFile string         `yaml:"signals_file"`
	Members     []MemberConfig `yaml:"members"`
	Poll        PollConfig     `yaml:"poll"`
	Filter      FilterConfig   `yaml:"filter"`
	Mqtt        MqttConfig     `yaml:"mqtt"`
}

// ---- BUS ----

type BusConfig struct {
	Driver       string `yaml:"driver"` // socketcan | slcan
	Interface    string `yaml:"interface"`
	Port         string `yaml:"port"`
	Baud         int    `yaml:"baud"`
	ClientMember string `yaml:"client_member"`
}

// ---- MEMBERS ----

type MemberConfig struct {
	Name      string  `yaml:"name"`
	Addr      uint16  `yaml:"addr"`
	ReadID    [2]byte `yaml:"read_id"`
	WriteID   [2]byte `yaml:"write_id"`
	ConfirmID [2]byte `yaml:"confirm_id"`
}

// ---- POLLING ----

type PollConfig struct {
	// Intervals in seconds per tier (high/medium/low).
	Intervals map[string]int `yaml:"intervals"`

	// JitterSeconds overrides JitterFraction when non-zero.
	JitterFraction float64 `yaml:"jitter_fraction"`
	JitterSeconds  int     `yaml:"jitter_seconds"`

	ReapSeconds int `yaml:"reap_seconds"`

	Groups map[string][]PollTarget `yaml:"groups"`
}

type PollTarget struct {
	Signal string `yaml:"signal"`
	Member string `yaml:"member"`
}

// ---- FILTER ----

type FilterConfig struct {
	IgnoreUnsolicited bool `yaml:"ignore_unsolicited"`
	TimeoutSeconds    int  `yaml:"timeout_seconds"`
}

// ---- MQTT ----

type MqttConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// ---- SIGNAL CATALOG FILE ----

type SignalConfig struct {
	Index       uint16 `yaml:"index"`
	Name        string `yaml:"name"`
	EnglishName string `yaml:"english_name"`
	Type        string `yaml:"type"`
}

// Load reads and decodes the main configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadSignals reads the signal catalog file referenced by
// bridge.signals_file.
func LoadSignals(path string) ([]SignalConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var signals []SignalConfig
	if err := yaml.Unmarshal(raw, &signals); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return signals, nil
}
