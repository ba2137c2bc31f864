// internal/bus/bus.go
package bus

// Frame is one raw bus frame: the source address and its payload.
type Frame struct {
	Addr uint16
	Data []byte
}

// Transport owns the physical or virtual bus channel.
// Send must not block on a response; Receive blocks until a frame
// arrives or the transport is closed.
// The engine depends on this contract only, not on a bus technology.
type Transport interface {
	Send(addr uint16, data []byte) error
	Receive() (Frame, error)
	Close() error
}
