package acmodel

import "fmt"

// CommandTarget describes what an in-flight command is waiting to see
// confirmed in the model before the session can consider it complete. It
// replaces a dynamic attribute lookup with a small closed set of concrete
// types, one per command family.
type CommandTarget interface {
	// Confirms reports whether m reflects the outcome this target is waiting for.
	Confirms(m *Model) bool
	// Describe renders the target for logging.
	Describe() string
}

// PowerTarget waits for the power bit to read back as Want.
type PowerTarget struct {
	Want bool
}

func (t PowerTarget) Confirms(m *Model) bool { return m.Power == t.Want }
func (t PowerTarget) Describe() string       { return fmt.Sprintf("power=%v", t.Want) }

// autoModeBits are the two raw mode codes ("auto heat" and "auto cool") that
// both satisfy a request for the "auto" short code; the unit reports whichever
// one it actually picked, not a dedicated "auto" code.
var autoModeBits = map[byte]bool{0x05: true, 0x06: true}

// ModeTarget waits for the mode field to read back as Want, treating either
// auto variant as equivalent to a requested auto mode.
type ModeTarget struct {
	Want byte
}

func (t ModeTarget) Confirms(m *Model) bool {
	if m.Mode == t.Want {
		return true
	}
	return autoModeBits[t.Want] && autoModeBits[m.Mode]
}

func (t ModeTarget) Describe() string { return fmt.Sprintf("mode=0x%02x", t.Want) }

// FanTarget waits for the fan level field to read back as Want.
type FanTarget struct {
	Want byte
}

func (t FanTarget) Confirms(m *Model) bool { return m.FanLv == t.Want }
func (t FanTarget) Describe() string       { return fmt.Sprintf("fan_lv=0x%02x", t.Want) }

// TempTarget waits for the setpoint (Temp1) to read back as Want degrees
// Celsius.
type TempTarget struct {
	Want int
}

func (t TempTarget) Confirms(m *Model) bool { return m.Temp1 == t.Want }
func (t TempTarget) Describe() string       { return fmt.Sprintf("temp1=%d", t.Want) }

// SaveTarget waits for a full broadcast's save-mode echo (byte 7, bits 4-5)
// to read back as Want. set_save is only confirmed through this echo field,
// not through the model's regular Save field.
type SaveTarget struct {
	Want byte
}

func (t SaveTarget) Confirms(m *Model) bool {
	return m.HaveSaveConfirm && m.SaveConfirm == t.Want
}
func (t SaveTarget) Describe() string { return fmt.Sprintf("save_confirm=0x%02x", t.Want) }

// FilterTarget waits for the filter flag to clear, the effect of
// reset_filter.
type FilterTarget struct{}

func (t FilterTarget) Confirms(m *Model) bool { return !m.Filter }
func (t FilterTarget) Describe() string       { return "filter=false" }

// HumidTarget waits for the humidifier flag to read back as Want.
type HumidTarget struct {
	Want bool
}

func (t HumidTarget) Confirms(m *Model) bool { return m.Humid == t.Want }
func (t HumidTarget) Describe() string       { return fmt.Sprintf("humid=%v", t.Want) }

// EncodeTemp converts a Celsius setpoint into its wire byte for a set_temp
// command frame. Callers must validate temp is within [MinTemp, MaxTemp].
func EncodeTemp(temp int) byte {
	return encodeTemp(temp)
}
