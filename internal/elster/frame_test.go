// internal/elster/frame_test.go
package elster

import (
	"bytes"
	"testing"
)

var fe7x = Member{
	Name:   "FE7X",
	Addr:   0x301,
	ReadID: [2]byte{0x61, 0x01},
}

var boiler = Member{
	Name:    "BOILER",
	Addr:    0x180,
	ReadID:  [2]byte{0x31, 0x00},
	WriteID: [2]byte{0x30, 0x00},
}

func TestBuildRead_StandardIndex(t *testing.T) {
	p := BuildRead(fe7x, 0x0042)
	want := []byte{0x61, 0x01, 0x42, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(p, want) {
		t.Fatalf("BuildRead(0x0042)=% X, want % X", p, want)
	}
}

func TestBuildRead_ExtendedIndex(t *testing.T) {
	p := BuildRead(fe7x, 0x0142)
	want := []byte{0x61, 0x01, 0xFA, 0x01, 0x42, 0x00, 0x00}
	if !bytes.Equal(p, want) {
		t.Fatalf("BuildRead(0x0142)=% X, want % X", p, want)
	}
}

func TestBuildWrite_StandardIndex(t *testing.T) {
	p := BuildWrite(boiler, 0x0017, 0x00F5)
	want := []byte{0x30, 0x00, 0x17, 0x00, 0xF5, 0x00, 0x00}
	if !bytes.Equal(p, want) {
		t.Fatalf("BuildWrite=% X, want % X", p, want)
	}
}

func TestBuildWrite_ExtendedIndex(t *testing.T) {
	p := BuildWrite(boiler, 0x0142, 0xFFCE)
	want := []byte{0x30, 0x00, 0xFA, 0x01, 0x42, 0xFF, 0xCE}
	if !bytes.Equal(p, want) {
		t.Fatalf("BuildWrite=% X, want % X", p, want)
	}
}

func TestParsePayload(t *testing.T) {
	cases := []struct {
		name      string
		payload   []byte
		index     uint16
		raw       uint16
		ok        bool
	}{
		{
			name:    "standard index",
			payload: []byte{0xE2, 0x00, 0x05, 0x00, 0xF5, 0x00, 0x00},
			index:   5, raw: 0x00F5, ok: true,
		},
		{
			name:    "extended index",
			payload: []byte{0xE2, 0x00, 0xFA, 0x01, 0x42, 0x00, 0xF5},
			index:   0x0142, raw: 0x00F5, ok: true,
		},
		{
			name:    "short payload dropped",
			payload: []byte{0xE2, 0x00, 0x05, 0x00},
			ok:      false,
		},
		{
			name:    "empty payload dropped",
			payload: nil,
			ok:      false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			index, raw, ok := ParsePayload(c.payload)
			if ok != c.ok {
				t.Fatalf("ok=%v, want %v", ok, c.ok)
			}
			if !ok {
				return
			}
			if index != c.index || raw != c.raw {
				t.Fatalf("got (0x%04X, 0x%04X), want (0x%04X, 0x%04X)", index, raw, c.index, c.raw)
			}
		})
	}
}

// Reading OUTSIDE_TEMP (0x0126, dec_val) from the FE7X remote:
// response raw 0x00F5 decodes to 24.5.
func TestReadScenario_OutsideTemp(t *testing.T) {
	p := BuildRead(fe7x, 0x0126)
	want := []byte{0x61, 0x01, 0xFA, 0x01, 0x26, 0x00, 0x00}
	if !bytes.Equal(p, want) {
		t.Fatalf("request=% X, want % X", p, want)
	}

	resp := []byte{0xE2, 0x00, 0xFA, 0x01, 0x26, 0x00, 0xF5}
	index, raw, ok := ParsePayload(resp)
	if !ok || index != 0x0126 {
		t.Fatalf("parse failed: ok=%v index=0x%04X", ok, index)
	}
	if v := Decode(raw, TypeDecVal); v.Num != 24.5 {
		t.Fatalf("decoded %v, want 24.5", v.Num)
	}
}
