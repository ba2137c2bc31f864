// internal/bus/slcan_test.go
package bus

import (
	"bytes"
	"testing"
)

func TestParseSLCANLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		addr uint16
		data []byte
		ok   bool
	}{
		{
			name: "seven byte data frame",
			line: "t1807310001260000F5\r",
			addr: 0x180,
			data: []byte{0x31, 0x00, 0x01, 0x26, 0x00, 0x00, 0xF5},
			ok:   true,
		},
		{
			name: "empty data frame",
			line: "t3010\r",
			addr: 0x301,
			data: []byte{},
			ok:   true,
		},
		{name: "command echo", line: "z\r", ok: false},
		{name: "status flags", line: "F00\r", ok: false},
		{name: "truncated payload", line: "t18073100\r", ok: false},
		{name: "bad id", line: "tXYZ0\r", ok: false},
		{name: "empty line", line: "\r", ok: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fr, ok := parseSLCANLine(c.line)
			if ok != c.ok {
				t.Fatalf("ok=%v, want %v", ok, c.ok)
			}
			if !ok {
				return
			}
			if fr.Addr != c.addr {
				t.Errorf("addr=0x%03X, want 0x%03X", fr.Addr, c.addr)
			}
			if !bytes.Equal(fr.Data, c.data) {
				t.Errorf("data=% X, want % X", fr.Data, c.data)
			}
		})
	}
}
