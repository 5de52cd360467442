package store

import (
	"time"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
)

// StatusRowFromModel renders m into the row shape WriteStatus expects, using
// the same symbol tables the status topic's JSON payload uses.
func StatusRowFromModel(m acmodel.Model, now time.Time) StatusRow {
	_, modeLabel, _ := acmodel.BitsToText(acmodel.ModeTable, m.Mode)
	_, fanLabel, _ := acmodel.BitsToText(acmodel.FanTable, m.FanLv)
	_, saveLabel, _ := acmodel.BitsToText(acmodel.SaveTable, m.Save)
	return StatusRow{
		Power:      m.Power,
		Mode:       modeLabel,
		Fan:        fanLabel,
		Setpoint:   m.Temp1,
		Temp:       m.Temp2,
		Save:       saveLabel,
		Humid:      m.Humid,
		Clean:      m.Clean,
		Filter:     m.Filter,
		Vent:       m.Vent,
		PwrLv1:     m.PwrLv1,
		PwrLv2:     m.PwrLv2,
		FilterTime: m.FilterTime,
		RecordedAt: now,
	}
}
