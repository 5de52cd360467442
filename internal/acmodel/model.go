package acmodel

import "fmt"

// Model is the unit's state as reconstructed from the frames this session has
// observed. Construct one with New: the zero value has nil Sensors and Extra
// maps, so it can take broadcast updates but not query replies.
type Model struct {
	Power bool
	Mode  byte // raw 3-bit field, see ModeTable
	Save  byte // raw 2-bit field, see SaveTable
	FanLv byte // raw 3-bit field, see FanTable

	Clean  bool
	Filter bool
	// Vent reflects byte 2 bit 2 of a state broadcast. The bit's meaning
	// could not be confirmed against a unit with the vent accessory fitted;
	// treat it as best-effort.
	Vent  bool
	Humid bool

	Temp1     int
	Temp2     int // only valid when HaveTemp2 is true (full broadcasts only)
	HaveTemp2 bool

	// SaveConfirm is the save-mode echo carried in byte 7, bits 4-5 of a
	// full broadcast. It is what reset_filter's sibling command, set_save,
	// is confirmed against, and is distinct from Save (byte 0's live field):
	// the unit only echoes a command's save setting back through this field,
	// not through the field it otherwise reports state on.
	SaveConfirm   byte
	HaveSaveConfirm bool

	PwrLv1     byte
	PwrLv2     byte
	FilterTime uint16

	// Sensors and Extra map a query id to its last reported value. A nil
	// entry means the unit reported that query id as not ready.
	Sensors map[byte]*int16
	Extra   map[byte]*int16

	// State1, State2 and ParamsRaw retain the most recent full broadcast,
	// compact broadcast and params payload verbatim, for diagnostics.
	State1    []byte
	State2    []byte
	ParamsRaw []byte
}

// New returns an empty Model ready to receive frame updates.
func New() *Model {
	return &Model{
		Sensors: make(map[byte]*int16),
		Extra:   make(map[byte]*int16),
	}
}

// decodeTemp converts a wire temperature byte to degrees Celsius.
func decodeTemp(b byte) int {
	return int(b>>1) - 35
}

// encodeTemp converts a Celsius setpoint to its wire byte. Callers are
// expected to have validated temp is within [MinTemp, MaxTemp].
func encodeTemp(temp int) byte {
	return byte((temp + 35) << 1)
}

// UpdateFromBroadcast applies a decoded broadcast payload (protocol.Frame's
// Payload field for a KindBroadcastFull or KindBroadcastCompact frame) to the
// model. payload must be 6 bytes (compact) or 8 bytes (full); either shape is
// accepted and only the fields the shape carries are updated, per the bus's
// habit of alternating between the two broadcast forms.
func (m *Model) UpdateFromBroadcast(payload []byte) error {
	full := len(payload) == 8
	if !full && len(payload) != 6 {
		return fmt.Errorf("acmodel: broadcast payload must be 6 or 8 bytes, got %d", len(payload))
	}

	b0 := payload[0]
	m.Power = b0&0x01 != 0
	m.Mode = (b0 >> 5) & 0x07
	m.Save = (b0 >> 3) & 0x03

	b1 := payload[1]
	m.Clean = b1&0x04 != 0
	m.FanLv = (b1 >> 5) & 0x07

	b2 := payload[2]
	m.Filter = b2&0x80 != 0
	m.Vent = b2&0x04 != 0
	m.Humid = b2&0x02 != 0

	m.Temp1 = decodeTemp(payload[4])

	if full {
		m.Temp2 = decodeTemp(payload[5])
		m.HaveTemp2 = true
		m.SaveConfirm = (payload[7] >> 4) & 0x03
		m.HaveSaveConfirm = true
		m.State1 = append([]byte(nil), payload...)
	} else {
		m.State2 = append([]byte(nil), payload...)
	}

	return nil
}

// UpdateFromParams applies a decoded params payload (a KindParams frame) to
// the model. The fields it carries are not individually modeled; it is kept
// raw for display and diagnostics.
func (m *Model) UpdateFromParams(payload []byte) {
	m.ParamsRaw = append([]byte(nil), payload...)
}

// replyStatusOK is the status byte value that marks a query reply as
// trustworthy; anything else means the unit reports that reading as
// unavailable.
const replyStatusOK = 0x2C

func be16(hi, lo byte) int16 {
	return int16(uint16(hi)<<8 | uint16(lo))
}

// UpdateFromSensorReply applies a decoded sensor_query reply payload for the
// query id that was sent (the reply itself does not repeat the id; the
// caller must track which query is outstanding). Layout: payload[2] is the
// status byte, payload[3:5] is the big-endian signed reading.
func (m *Model) UpdateFromSensorReply(qid byte, payload []byte) error {
	if len(payload) < 5 {
		return fmt.Errorf("acmodel: sensor reply payload too short: got %d bytes, need 5", len(payload))
	}
	if payload[2] != replyStatusOK {
		m.Sensors[qid] = nil
		return nil
	}
	v := be16(payload[3], payload[4])
	m.Sensors[qid] = &v
	return nil
}

// UpdateFromExtraReply applies a decoded extra_query reply payload for the
// query id that was sent, same layout as a sensor reply. Query id 0x94
// additionally splits its reading into PwrLv1/PwrLv2; 0x9E assembles it into
// FilterTime.
func (m *Model) UpdateFromExtraReply(qid byte, payload []byte) error {
	if len(payload) < 5 {
		return fmt.Errorf("acmodel: extra reply payload too short: got %d bytes, need 5", len(payload))
	}
	if payload[2] != replyStatusOK {
		m.Extra[qid] = nil
		return nil
	}
	v := be16(payload[3], payload[4])
	m.Extra[qid] = &v

	switch qid {
	case 0x94:
		m.PwrLv1 = byte(uint16(v) >> 8)
		m.PwrLv2 = byte(uint16(v))
	case 0x9E:
		m.FilterTime = uint16(v)
	}
	return nil
}
