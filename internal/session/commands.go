package session

import (
	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/protocol"
)

// Query ids for the periodic poll's extra_query calls.
const (
	qidPowerLevels = 0x94
	qidFilterHours = 0x9E
)

// sensorQueryIDs is the fixed set queried once per poll cycle.
var sensorQueryIDs = []byte{0x02, 0x03, 0x04, 0x60, 0x61, 0x62, 0x63, 0x65, 0x6A}

func buildSetPower(addr byte, on bool) ([]byte, error) {
	var bit byte
	if on {
		bit = 1
	}
	return protocol.Encode([3]byte{addr, 0x00, 0x11}, []byte{0x08, 0x41, 0x02 | bit})
}

func buildSetMode(addr byte, modeBits byte) ([]byte, error) {
	return protocol.Encode([3]byte{addr, 0x00, 0x11}, []byte{0x08, 0x42, modeBits})
}

func buildSetTemp(addr byte, model *acmodel.Model, temp int) ([]byte, error) {
	body := []byte{
		0x08, 0x4C,
		0b01<<3 | model.Mode,
		0b111000 | model.FanLv,
		acmodel.EncodeTemp(temp),
	}
	return protocol.Encode([3]byte{addr, 0x00, 0x11}, body)
}

func buildSetFan(addr byte, model *acmodel.Model, fanBits byte) ([]byte, error) {
	body := []byte{
		0x08, 0x4C,
		0b10<<3 | model.Mode,
		0b111000 | fanBits,
		acmodel.EncodeTemp(model.Temp1),
	}
	return protocol.Encode([3]byte{addr, 0x00, 0x11}, body)
}

func buildSetSave(addr byte, model *acmodel.Model, saveBits byte) ([]byte, error) {
	body := []byte{
		0x00, 0x4C,
		0b100000 | model.Mode,
		saveBits<<4 | 0b1000 | model.FanLv,
		acmodel.EncodeTemp(model.Temp1),
	}
	return protocol.Encode([3]byte{addr, 0xFE, 0x10}, body)
}

func buildResetFilter(addr byte) ([]byte, error) {
	return protocol.Encode([3]byte{addr, 0xFE, 0x10}, []byte{0x00, 0x4B})
}

func buildToggleHumid(addr byte) ([]byte, error) {
	return protocol.Encode([3]byte{addr, 0x00, 0x11}, []byte{0x08, 0x52, 0x01})
}

func buildSensorQuery(addr, qid byte) ([]byte, error) {
	return protocol.Encode([3]byte{addr, 0x00, 0x17}, []byte{0x08, 0x80, 0xEF, 0x00, 0x2C, 0x08, 0x00, qid})
}

func buildExtraQuery(addr, qid byte) ([]byte, error) {
	return protocol.Encode([3]byte{addr, 0x00, 0x15}, []byte{0x08, 0xE8, 0x00, 0x01, 0x00, qid})
}
