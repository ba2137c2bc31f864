// internal/bus/slcan.go
package bus

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"go.bug.st/serial"
)

// SLCAN is a Transport over a USB serial CAN adapter speaking the
// slcan ASCII framing ("t<iii><l><dd..>\r"). These adapters are the
// common way to reach the heat-pump bus without a native CAN port.
type SLCAN struct {
	port serial.Port
	rd   *bufio.Reader
}

// DialSLCAN opens the serial port and puts the adapter on the bus.
// The adapter's CAN bitrate must already match the bus (S1 = 20 kbit/s
// on most slcan firmwares); we send the open command only.
func DialSLCAN(portName string, baud int) (*SLCAN, error) {
	if portName == "" {
		return nil, errors.New("bus: serial port name required")
	}
	if baud <= 0 {
		baud = 115200
	}
	mode := &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	s := &SLCAN{port: port, rd: bufio.NewReader(port)}
	if _, err := port.Write([]byte("O\r")); err != nil {
		port.Close()
		return nil, fmt.Errorf("bus: slcan open command failed: %w", err)
	}
	return s, nil
}

func (s *SLCAN) Send(addr uint16, data []byte) error {
	line := fmt.Sprintf("t%03X%d%s\r", addr&0x7FF, len(data), hex.EncodeToString(data))
	_, err := s.port.Write([]byte(line))
	return err
}

func (s *SLCAN) Receive() (Frame, error) {
	for {
		line, err := s.rd.ReadString('\r')
		if err != nil {
			return Frame{}, err
		}
		fr, ok := parseSLCANLine(line)
		if ok {
			return fr, nil
		}
		// Command echoes and status lines are not frames; keep reading.
	}
}

func (s *SLCAN) Close() error {
	s.port.Write([]byte("C\r"))
	return s.port.Close()
}

// parseSLCANLine decodes one standard-id data frame line.
func parseSLCANLine(line string) (Frame, bool) {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	if len(line) < 5 || line[0] != 't' {
		return Frame{}, false
	}
	id, err := strconv.ParseUint(line[1:4], 16, 16)
	if err != nil {
		return Frame{}, false
	}
	n := int(line[4] - '0')
	if n < 0 || n > 8 || len(line) < 5+2*n {
		return Frame{}, false
	}
	data, err := hex.DecodeString(line[5 : 5+2*n])
	if err != nil {
		return Frame{}, false
	}
	return Frame{Addr: uint16(id), Data: data}, true
}
