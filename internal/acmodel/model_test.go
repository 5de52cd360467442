package acmodel

import "testing"

func TestUpdateFromBroadcastCompact(t *testing.T) {
	m := New()
	// power on, mode=cool(0x02), save=0, clean off, fan_lv=3, filter off, vent off, temp1=22C
	payload := []byte{
		0x01 | (0x02 << 5),
		(0x03 << 5),
		0x00,
		0x00,
		encodeTemp(22),
		0x00,
	}

	if err := m.UpdateFromBroadcast(payload); err != nil {
		t.Fatalf("UpdateFromBroadcast: unexpected error: %v", err)
	}
	if !m.Power {
		t.Error("Power = false, want true")
	}
	if m.Mode != 0x02 {
		t.Errorf("Mode = 0x%02x, want 0x02", m.Mode)
	}
	if m.FanLv != 0x03 {
		t.Errorf("FanLv = 0x%02x, want 0x03", m.FanLv)
	}
	if m.Temp1 != 22 {
		t.Errorf("Temp1 = %d, want 22", m.Temp1)
	}
	if m.HaveTemp2 {
		t.Error("HaveTemp2 = true for a compact broadcast, want false")
	}
	if m.HaveSaveConfirm {
		t.Error("HaveSaveConfirm = true for a compact broadcast, want false")
	}
}

func TestUpdateFromBroadcastFull(t *testing.T) {
	m := New()
	payload := make([]byte, 8)
	payload[0] = 0x01 // power on, mode bits zero here (not a defined mode, fine for this test)
	payload[4] = encodeTemp(20)
	payload[5] = encodeTemp(18)
	payload[7] = 0x03 << 4 // save-confirm echo = off (0x03)

	if err := m.UpdateFromBroadcast(payload); err != nil {
		t.Fatalf("UpdateFromBroadcast: unexpected error: %v", err)
	}
	if !m.HaveTemp2 {
		t.Fatal("HaveTemp2 = false for a full broadcast, want true")
	}
	if m.Temp1 != 20 || m.Temp2 != 18 {
		t.Errorf("Temp1/Temp2 = %d/%d, want 20/18", m.Temp1, m.Temp2)
	}
	if !m.HaveSaveConfirm || m.SaveConfirm != 0x03 {
		t.Errorf("SaveConfirm = %v/0x%02x, want true/0x03", m.HaveSaveConfirm, m.SaveConfirm)
	}
	if len(m.State1) != 8 {
		t.Errorf("State1 len = %d, want 8", len(m.State1))
	}
}

func TestUpdateFromBroadcastBadLength(t *testing.T) {
	m := New()
	if err := m.UpdateFromBroadcast([]byte{0x01, 0x02}); err == nil {
		t.Fatal("UpdateFromBroadcast: expected error for bad payload length")
	}
}

func TestUpdateFromSensorReply(t *testing.T) {
	m := New()
	// qid 0x02, status OK, value 0x001A = 26, matching the sensor_query worked example.
	payload := []byte{0x00, 0x00, 0x2C, 0x00, 0x1A, 0x08, 0x00}
	if err := m.UpdateFromSensorReply(0x02, payload); err != nil {
		t.Fatalf("UpdateFromSensorReply: unexpected error: %v", err)
	}

	v, ok := m.Sensors[0x02]
	if !ok || v == nil || *v != 26 {
		t.Fatalf("Sensors[0x02] = %v, want *26", v)
	}
}

func TestUpdateFromSensorReplyNotReady(t *testing.T) {
	m := New()
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	if err := m.UpdateFromSensorReply(0x03, payload); err != nil {
		t.Fatalf("UpdateFromSensorReply: unexpected error: %v", err)
	}
	v, ok := m.Sensors[0x03]
	if !ok || v != nil {
		t.Fatalf("Sensors[0x03] = %v, want nil (not ready)", v)
	}
}

func TestUpdateFromExtraReplyPowerLevels(t *testing.T) {
	m := New()
	payload := []byte{0x00, 0x00, 0x2C, 0x10, 0x20}
	if err := m.UpdateFromExtraReply(0x94, payload); err != nil {
		t.Fatalf("UpdateFromExtraReply: unexpected error: %v", err)
	}
	if m.PwrLv1 != 0x10 || m.PwrLv2 != 0x20 {
		t.Errorf("PwrLv1/PwrLv2 = %02x/%02x, want 10/20", m.PwrLv1, m.PwrLv2)
	}
}

func TestUpdateFromExtraReplyFilterTime(t *testing.T) {
	m := New()
	payload := []byte{0x00, 0x00, 0x2C, 0x01, 0x2C}
	if err := m.UpdateFromExtraReply(0x9E, payload); err != nil {
		t.Fatalf("UpdateFromExtraReply: unexpected error: %v", err)
	}
	if m.FilterTime != 0x012C {
		t.Errorf("FilterTime = 0x%04x, want 0x012c", m.FilterTime)
	}
}
