package mqttbus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/appconfig"
)

func TestNewStatusPayloadRendersLabels(t *testing.T) {
	m := acmodel.Model{
		Power: true,
		Mode:  0x01,
		FanLv: 0x05,
		Save:  0x00,
		Temp1: 23,
		Temp2: 21,
		Humid: true,
	}

	p := newStatusPayload(m)

	assert.True(t, p.Power)
	assert.Equal(t, "heat", p.Mode)
	assert.Equal(t, "low", p.Fan)
	assert.Equal(t, "on", p.Save)
	assert.Equal(t, 23, p.Setpoint)
	assert.Equal(t, 21, p.Temp)
	assert.True(t, p.Humid)
}

func TestNewUpdatePayloadCarriesSensorsAndExtra(t *testing.T) {
	reading := int16(215)
	m := acmodel.Model{
		Power:      true,
		PwrLv1:     3,
		PwrLv2:     7,
		FilterTime: 512,
		Sensors:    map[byte]*int16{0x02: &reading},
		Extra:      map[byte]*int16{0x94: nil},
	}

	p := newUpdatePayload(m)

	assert.Equal(t, byte(3), p.PwrLv1)
	assert.Equal(t, byte(7), p.PwrLv2)
	assert.Equal(t, uint16(512), p.FilterTime)
	assert.Equal(t, &reading, p.Sensors[0x02])
	assert.Nil(t, p.Extra[0x94])
}

func TestBrokerURLSelectsSchemeFromTLS(t *testing.T) {
	plain := brokerURL(appconfig.Broker{Host: "broker", Port: 1883, TLS: false})
	assert.Equal(t, "tcp://broker:1883", plain)

	secure := brokerURL(appconfig.Broker{Host: "broker", Port: 8883, TLS: true})
	assert.Equal(t, "ssl://broker:8883", secure)
}
