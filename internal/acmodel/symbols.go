package acmodel

// Symbol maps a raw bit pattern to a short command code (used on the control
// topic and in command frame templates) and a human label (used in status
// output). Tables are ordered slices, not maps: lookups stop at the first
// match, mirroring the list-of-tuples the symbol tables were ported from, so
// a bit pattern with more than one plausible short code always resolves to
// the same one.
type Symbol struct {
	Bits  byte
	Short string
	Label string
}

// MinTemp and MaxTemp bound the setpoint accepted by set_temp. The wire
// encoding ((byte>>1)-35) can carry a wider range; these are the unit's
// setpoint limits.
const (
	MinTemp = 18
	MaxTemp = 29
)

// ModeTable is the mode field of a state broadcast (byte 0, bits 5-7).
var ModeTable = []Symbol{
	{Bits: 0x01, Short: "H", Label: "heat"},
	{Bits: 0x02, Short: "C", Label: "cool"},
	{Bits: 0x03, Short: "F", Label: "fan"},
	{Bits: 0x04, Short: "D", Label: "dry"},
	{Bits: 0x05, Short: "A", Label: "auto heat"},
	{Bits: 0x06, Short: "", Label: "auto cool"},
}

// SaveTable is the energy-save field (byte 0, bits 3-4). Only two of the four
// bit patterns are defined; the rest are reported via their raw bits. Short
// codes follow this repo's "1"/"0" on/off convention used by every other
// boolean-like field (power, humid), rather than toshiba.py's "S"/"R", so the
// control topic has one consistent vocabulary across set_power/set_save/
// set_humid instead of mixing two.
var SaveTable = []Symbol{
	{Bits: 0x00, Short: "1", Label: "on"},
	{Bits: 0x03, Short: "0", Label: "off"},
}

// FanTable is the fan speed field (byte 1, bits 5-7).
var FanTable = []Symbol{
	{Bits: 0x05, Short: "L", Label: "low"},
	{Bits: 0x04, Short: "M", Label: "med"},
	{Bits: 0x03, Short: "H", Label: "high"},
	{Bits: 0x02, Short: "A", Label: "auto"},
}

// PowerTable is the power field (byte 0, bit 0).
var PowerTable = []Symbol{
	{Bits: 0x01, Short: "1", Label: "on"},
	{Bits: 0x00, Short: "0", Label: "off"},
}

// HumidTable is the humidifier field (byte 2, bit 1).
var HumidTable = []Symbol{
	{Bits: 0x01, Short: "1", Label: "on"},
	{Bits: 0x00, Short: "0", Label: "off"},
}

// BitsToText looks up bits in table and returns its short code and label.
// ok is false if no entry matches.
func BitsToText(table []Symbol, bits byte) (short, label string, ok bool) {
	for _, s := range table {
		if s.Bits == bits {
			return s.Short, s.Label, true
		}
	}
	return "", "", false
}

// CmdToBits resolves a short command code to its bit pattern, first match
// wins. ok is false for an empty code or one no entry uses; an entry with an
// empty Short (auto cool) can be reported but never commanded.
func CmdToBits(table []Symbol, short string) (bits byte, ok bool) {
	if short == "" {
		return 0, false
	}
	for _, s := range table {
		if s.Short == short {
			return s.Bits, true
		}
	}
	return 0, false
}
