// cmd/bridge/transport.go
package main

import (
	"fmt"

	"github.com/tamzrod/elster-bridge/internal/bus"
	"github.com/tamzrod/elster-bridge/internal/config"
)

// openTransport picks the bus driver from config.
func openTransport(cfg config.BusConfig) (bus.Transport, error) {
	switch cfg.Driver {
	case "socketcan":
		return bus.DialSocketCAN(cfg.Interface)
	case "slcan":
		return bus.DialSLCAN(cfg.Port, cfg.Baud)
	default:
		return nil, fmt.Errorf("unknown bus driver %q", cfg.Driver)
	}
}
