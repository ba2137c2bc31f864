// internal/publish/publisher.go
package publish

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tamzrod/elster-bridge/internal/elster"
	"github.com/tamzrod/elster-bridge/internal/status"
)

// Config is the MQTT connection configuration.
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// CommandFunc handles one inbound command for (member, signal).
type CommandFunc func(member, signal, payload string) error

// Publisher is the downstream consumer boundary: it forwards decoded
// signal values to the automation bus and feeds commands back in.
// The bus semantics live elsewhere; this is a thin boundary adapter.
type Publisher struct {
	cli    mqtt.Client
	prefix string
	log    zerolog.Logger
}

// connectTimeout bounds the initial broker handshake.
const connectTimeout = 10 * time.Second

func New(cfg Config, log zerolog.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("publish: broker address required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "elster-bridge"
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "elster"
	}

	p := &Publisher{prefix: cfg.TopicPrefix, log: log}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetWill(availabilityTopic(cfg.TopicPrefix), "offline", 0, true).
		SetOnConnectHandler(func(c mqtt.Client) {
			c.Publish(availabilityTopic(cfg.TopicPrefix), 0, true, "online")
			log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
		})

	p.cli = mqtt.NewClient(opts)
	tok := p.cli.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("publish: broker %s connect timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("publish: connect failed: %w", err)
	}
	return p, nil
}

// PublishValue publishes one decoded signal value, retained.
func (p *Publisher) PublishValue(member, signal string, v elster.Value) error {
	tok := p.cli.Publish(stateTopic(p.prefix, member, signal), 0, true, v.String())
	tok.Wait()
	return tok.Error()
}

// PublishStatus publishes the poll statistics snapshot.
func (p *Publisher) PublishStatus(snap status.Snapshot) error {
	payload, err := status.Encode(snap)
	if err != nil {
		return err
	}
	tok := p.cli.Publish(statusTopic(p.prefix), 0, false, payload)
	tok.Wait()
	return tok.Error()
}

// SubscribeCommands routes <prefix>/<member>/<signal>/set payloads to
// fn. Handler errors are logged, never fatal: a bad command must not
// take the bridge down.
func (p *Publisher) SubscribeCommands(fn CommandFunc) error {
	tok := p.cli.Subscribe(commandFilterTopic(p.prefix), 0, func(_ mqtt.Client, msg mqtt.Message) {
		member, signal, ok := parseCommandTopic(p.prefix, msg.Topic())
		if !ok {
			p.log.Warn().Str("topic", msg.Topic()).Msg("unroutable command topic")
			return
		}
		if err := fn(member, signal, string(msg.Payload())); err != nil {
			p.log.Warn().Err(err).Str("member", member).Str("signal", signal).Msg("command rejected")
		}
	})
	tok.Wait()
	return tok.Error()
}

// Close announces offline and disconnects.
func (p *Publisher) Close() {
	tok := p.cli.Publish(availabilityTopic(p.prefix), 0, true, "offline")
	tok.WaitTimeout(time.Second)
	p.cli.Disconnect(250)
}
