// internal/bus/socketcan.go
package bus

import (
	"errors"

	"github.com/notnil/canbus"
)

// SocketCAN is a Transport over a Linux SocketCAN interface.
// The controller family runs the bus at 20 kbit/s; bitrate setup is
// left to the interface configuration (ip link), as usual for
// socketcan deployments.
type SocketCAN struct {
	sock canbus.Bus
}

// DialSocketCAN binds to a CAN interface such as "can0".
func DialSocketCAN(iface string) (*SocketCAN, error) {
	if iface == "" {
		return nil, errors.New("bus: can interface name required")
	}
	sock, err := canbus.DialSocketCAN(iface)
	if err != nil {
		return nil, err
	}
	return &SocketCAN{sock: sock}, nil
}

func (s *SocketCAN) Send(addr uint16, data []byte) error {
	fr := canbus.Frame{ID: uint32(addr), Len: uint8(len(data))}
	copy(fr.Data[:], data)
	return s.sock.Send(fr)
}

func (s *SocketCAN) Receive() (Frame, error) {
	fr, err := s.sock.Receive()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Addr: uint16(fr.ID), Data: append([]byte(nil), fr.Data[:fr.Len]...)}, nil
}

func (s *SocketCAN) Close() error { return s.sock.Close() }
