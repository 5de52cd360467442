package mqttbus

import "github.com/toshiba-abbus/acprocessor/internal/acmodel"

// statusPayload is the user-visible status published to <root>/status after
// every broadcast-driven model update.
type statusPayload struct {
	Power    bool   `json:"power"`
	Mode     string `json:"mode"`
	Fan      string `json:"fan"`
	Setpoint int    `json:"setpoint"`
	Temp     int    `json:"temp"`
	Save     string `json:"save"`
	Humid    bool   `json:"humid"`
	Clean    bool   `json:"clean"`
	Filter   bool   `json:"filter"`
	Vent     bool   `json:"vent"`
}

func newStatusPayload(m acmodel.Model) statusPayload {
	_, modeLabel, _ := acmodel.BitsToText(acmodel.ModeTable, m.Mode)
	_, fanLabel, _ := acmodel.BitsToText(acmodel.FanTable, m.FanLv)
	_, saveLabel, _ := acmodel.BitsToText(acmodel.SaveTable, m.Save)
	return statusPayload{
		Power:    m.Power,
		Mode:     modeLabel,
		Fan:      fanLabel,
		Setpoint: m.Temp1,
		Temp:     m.Temp2,
		Save:     saveLabel,
		Humid:    m.Humid,
		Clean:    m.Clean,
		Filter:   m.Filter,
		Vent:     m.Vent,
	}
}

// updatePayload is the sensor/power/filter-time snapshot published to
// <root>/update once a periodic poll batch has fully drained.
type updatePayload struct {
	Power      bool            `json:"power"`
	PwrLv1     byte            `json:"pwr_lv1"`
	PwrLv2     byte            `json:"pwr_lv2"`
	FilterTime uint16          `json:"filter_time"`
	Sensors    map[byte]*int16 `json:"sensors"`
	Extra      map[byte]*int16 `json:"extra"`
}

func newUpdatePayload(m acmodel.Model) updatePayload {
	return updatePayload{
		Power:      m.Power,
		PwrLv1:     m.PwrLv1,
		PwrLv2:     m.PwrLv2,
		FilterTime: m.FilterTime,
		Sensors:    m.Sensors,
		Extra:      m.Extra,
	}
}

// processorStatePayload backs both the retained start/ready announcement and
// the LWT.
type processorStatePayload struct {
	State string `json:"state"`
}

// processorInternalStatePayload backs the non-retained internal state-change
// notification.
type processorInternalStatePayload struct {
	InternalState string `json:"internal_state"`
}

// bridgeConnectionPayload is the shape of <root>/client/bridge.
type bridgeConnectionPayload struct {
	Connection string `json:"connection"`
}

// controlPayload is the shape of <root>/control; every key present in a
// message is applied, not just the first.
type controlPayload struct {
	SetPower *string `json:"set_power"`
	SetMode  *string `json:"set_mode"`
	SetFan   *string `json:"set_fan"`
	SetTemp  *int    `json:"set_temp"`
	SetSave  *string `json:"set_save"`
	SetHumid *string `json:"set_humid"`
}
