// internal/elster/value.go
package elster

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind says which field of a Value is populated.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindText
)

// Value is a decoded signal value. Exactly one field is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	Text string
}

func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Text(s string) Value    { return Value{Kind: KindText, Text: s} }

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindText:
		return v.Text
	default:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
}

// Modes is the controller's operating-mode table.
var Modes = map[uint16]string{
	0: "Notbetrieb",
	1: "Bereitschaft",
	2: "Programmbetrieb",
	3: "Tagbetrieb",
	4: "Absenkbetrieb",
	5: "Sommer(WW)",
	6: "Aus",
}

// ErrCodes maps controller fault codes to their short labels.
var ErrCodes = map[uint16]string{
	4: "DS", 8: "BWT", 12: "EVU", 16: "WS", 20: "MOT",
	24: "HD", 28: "ND", 30: "VD", 32: "HG", 34: "GG",
	36: "PD", 38: "LMD", 40: "TL", 42: "VK", 44: "HDW",
	48: "SWT", 52: "AGF", 56: "TK", 58: "LP", 60: "OSDK",
	62: "Geraetefehler", 64: "pTKHDG", 68: "Frostschutz", 72: "Wartung",
}

// signed reinterprets a raw wire value as a signed 16-bit quantity.
func signed(raw uint16) int16 { return int16(raw) }

// Decode converts a raw 16-bit wire value into a typed Value.
// It never fails: NONE-typed signals pass the raw value through.
func Decode(raw uint16, t ValueType) Value {
	switch t {
	case TypeBool:
		return Bool(raw != 0)
	case TypeLittleBool:
		return Bool(raw&0x0100 != 0)
	case TypeDecVal:
		return Number(float64(signed(raw)) / 10)
	case TypeCentVal:
		return Number(float64(signed(raw)) / 100)
	case TypeMilVal:
		return Number(float64(signed(raw)) / 1000)
	case TypeLittleEndian:
		return Number(float64(raw>>8 | raw<<8))
	case TypeMode:
		if s, ok := Modes[raw]; ok {
			return Text(s)
		}
		return Text(fmt.Sprintf("Mode %d", raw))
	case TypeErrCode:
		if raw == 0 {
			return Text("No Error")
		}
		if s, ok := ErrCodes[raw]; ok {
			return Text(s)
		}
		return Text("Unknown")
	case TypeTime:
		return Number(float64(raw) / 3600)
	case TypeDate:
		return Text(fmt.Sprintf("%04d-%02d-%02d", raw/10000, raw/100%100, raw%100))
	default:
		// INTEGER, BYTE, DEV_NR, DEV_ID, NONE: passthrough
		return Number(float64(raw))
	}
}

// Encode converts the string form of a value into its raw wire
// representation. Writing a NONE-typed (unknown or read-only) signal
// is forbidden and returns an error, as does any malformed input;
// failures never default to 0.
func Encode(s string, t ValueType) (uint16, error) {
	switch t {
	case TypeNone:
		return 0, fmt.Errorf("elster: refusing to encode read-only signal value %q", s)
	case TypeBool:
		b, err := parseBool(s)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case TypeLittleBool:
		b, err := parseBool(s)
		if err != nil {
			return 0, err
		}
		if b {
			return 0x0100, nil
		}
		return 0, nil
	case TypeDecVal:
		return encodeScaled(s, 10)
	case TypeCentVal:
		return encodeScaled(s, 100)
	case TypeMilVal:
		return encodeScaled(s, 1000)
	case TypeLittleEndian:
		n, err := parseUint(s)
		if err != nil {
			return 0, err
		}
		return n>>8 | n<<8, nil
	case TypeMode:
		for code, label := range Modes {
			if label == s {
				return code, nil
			}
		}
		return 0, nil
	case TypeErrCode:
		for code, label := range ErrCodes {
			if label == s {
				return code, nil
			}
		}
		return 0, nil
	case TypeTime:
		hours, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("elster: bad time value %q: %w", s, err)
		}
		return uint16(math.Round(hours * 3600)), nil
	case TypeDate:
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return 0, fmt.Errorf("elster: bad date value %q: %w", s, err)
		}
		packed := d.Year()*10000 + int(d.Month())*100 + d.Day()
		if packed > 0xFFFF {
			return 0, fmt.Errorf("elster: date %q does not fit the wire format", s)
		}
		return uint16(packed), nil
	default:
		// INTEGER, BYTE, DEV_NR, DEV_ID: passthrough
		return parseUint(s)
	}
}

// encodeScaled stores value*scale as a 16-bit two's-complement quantity.
func encodeScaled(s string, scale float64) (uint16, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("elster: bad numeric value %q: %w", s, err)
	}
	return uint16(int(math.Round(f*scale)) & 0xFFFF), nil
}

func parseUint(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("elster: bad integer value %q: %w", s, err)
	}
	return uint16(n), nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1", "on", "yes", "ON":
		return true, nil
	case "false", "0", "off", "no", "OFF":
		return false, nil
	}
	return false, fmt.Errorf("elster: bad boolean value %q", s)
}
