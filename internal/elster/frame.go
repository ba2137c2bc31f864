// internal/elster/frame.go
package elster

// PayloadLen is the fixed frame payload size. Anything shorter is
// malformed and dropped by ParsePayload.
const PayloadLen = 7

// extendedMarker in payload byte 2 signals a two-byte index in
// bytes 3-4 instead of a one-byte index in byte 2.
const extendedMarker = 0xFA

// MaxIndex is the highest addressable signal index.
const MaxIndex = 0x1FFF

// BuildRead builds the 7-byte read request payload for one signal on
// one member. Addressing is carried entirely by the member's read
// sub-address in bytes 0-1.
func BuildRead(m Member, index uint16) []byte {
	p := make([]byte, PayloadLen)
	p[0] = m.ReadID[0]
	p[1] = m.ReadID[1]
	if index <= 0xFF {
		p[2] = byte(index)
	} else {
		p[2] = extendedMarker
		p[3] = byte(index >> 8)
		p[4] = byte(index)
	}
	return p
}

// BuildWrite builds the 7-byte write request payload. The value bytes
// follow the index: bytes 3-4 for a standard index, bytes 5-6 for an
// extended one.
func BuildWrite(m Member, index, raw uint16) []byte {
	p := make([]byte, PayloadLen)
	p[0] = m.WriteID[0]
	p[1] = m.WriteID[1]
	if index <= 0xFF {
		p[2] = byte(index)
		p[3] = byte(raw >> 8)
		p[4] = byte(raw)
	} else {
		p[2] = extendedMarker
		p[3] = byte(index >> 8)
		p[4] = byte(index)
		p[5] = byte(raw >> 8)
		p[6] = byte(raw)
	}
	return p
}

// ParsePayload extracts (index, raw value) from an incoming payload.
// ok is false for payloads shorter than 7 bytes.
func ParsePayload(p []byte) (index, raw uint16, ok bool) {
	if len(p) < PayloadLen {
		return 0, 0, false
	}
	if p[2] == extendedMarker {
		index = uint16(p[3])<<8 | uint16(p[4])
		raw = uint16(p[5])<<8 | uint16(p[6])
	} else {
		index = uint16(p[2])
		raw = uint16(p[3])<<8 | uint16(p[4])
	}
	return index, raw, true
}
