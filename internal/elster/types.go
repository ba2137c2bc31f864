// internal/elster/types.go
package elster

import "fmt"

// ValueType is the closed set of wire representations used by the
// Elster protocol. Decode/Encode switch exhaustively over it.
type ValueType int

const (
	TypeNone ValueType = iota // unknown / read-only
	TypeInteger
	TypeByte
	TypeBool       // flag in bit 0
	TypeLittleBool // flag in bit 8
	TypeDecVal     // signed, scaled by 10
	TypeCentVal    // signed, scaled by 100
	TypeMilVal     // signed, scaled by 1000
	TypeLittleEndian
	TypeMode
	TypeErrCode
	TypeTime // seconds on the wire, hours decoded
	TypeDate // packed YYYYMMDD
	TypeDevNr
	TypeDevID
)

var typeNames = map[ValueType]string{
	TypeNone:         "none",
	TypeInteger:      "integer",
	TypeByte:         "byte",
	TypeBool:         "bool",
	TypeLittleBool:   "little_bool",
	TypeDecVal:       "dec_val",
	TypeCentVal:      "cent_val",
	TypeMilVal:       "mil_val",
	TypeLittleEndian: "little_endian",
	TypeMode:         "mode",
	TypeErrCode:      "err_code",
	TypeTime:         "time",
	TypeDate:         "date",
	TypeDevNr:        "dev_nr",
	TypeDevID:        "dev_id",
}

func (t ValueType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("valuetype(%d)", int(t))
}

// ParseValueType maps a config tag to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("elster: unknown value type %q", s)
}

// SignalDefinition is one row of the signal catalog.
type SignalDefinition struct {
	Index       uint16 // 0..0x1FFF
	Name        string // native name
	DisplayName string
	Type        ValueType
}

// Member is one bus participant with its addressing information.
// Addr is the identity the member uses when sourcing frames; the
// sub-address pairs select the operation inside the payload.
type Member struct {
	Name      string
	Addr      uint16
	ReadID    [2]byte
	WriteID   [2]byte
	ConfirmID [2]byte
}

// DefaultMembers is the controller family's stock member table.
// Index 0 is the local client used to source outgoing frames.
var DefaultMembers = []Member{
	{Name: "HACLIENT", Addr: 0x680, ReadID: [2]byte{0x00, 0x00}, WriteID: [2]byte{0x00, 0x00}, ConfirmID: [2]byte{0xE2, 0x00}},
	{Name: "BOILER", Addr: 0x180, ReadID: [2]byte{0x31, 0x00}, WriteID: [2]byte{0x30, 0x00}},
	{Name: "FE7X", Addr: 0x301, ReadID: [2]byte{0x61, 0x01}},
	{Name: "FEK", Addr: 0x302, ReadID: [2]byte{0x61, 0x02}},
	{Name: "MANAGER", Addr: 0x480, ReadID: [2]byte{0x91, 0x00}, WriteID: [2]byte{0x90, 0x00}},
	{Name: "HEATING", Addr: 0x500, ReadID: [2]byte{0xA1, 0x00}, WriteID: [2]byte{0xA0, 0x00}},
	{Name: "MIXER", Addr: 0x601, ReadID: [2]byte{0xC1, 0x01}, WriteID: [2]byte{0xC0, 0x01}},
	{Name: "FE7", Addr: 0x602, ReadID: [2]byte{0xC1, 0x02}},
}
