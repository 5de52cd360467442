package session

import (
	"testing"
	"time"

	"github.com/toshiba-abbus/acprocessor/internal/acfsm"
	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/protocol"
)

type fakeSink struct {
	sent [][]byte
	err  error
}

func (f *fakeSink) Send(frame []byte) error {
	f.sent = append(f.sent, append([]byte(nil), frame...))
	return f.err
}

type fakeEvents struct {
	starts, readies, updates int
	states                   []string
	statuses                 []string
}

func (f *fakeEvents) OnStart()               { f.starts++ }
func (f *fakeEvents) OnReady()               { f.readies++ }
func (f *fakeEvents) OnStateChange(s string) { f.states = append(f.states, s) }
func (f *fakeEvents) OnStatus(k string)      { f.statuses = append(f.statuses, k) }
func (f *fakeEvents) OnUpdate()              { f.updates++ }

// fullBroadcastFrame builds a wire-ready full-state broadcast frame with the
// given 8-byte state payload.
func fullBroadcastFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	frame, err := protocol.Encode([3]byte{0x00, 0xFE, 0x58}, append([]byte{0x00, 0x00}, payload...))
	if err != nil {
		t.Fatalf("encode broadcast: %v", err)
	}
	return frame
}

func ackFrame(t *testing.T, addr byte) []byte {
	t.Helper()
	frame, err := protocol.Encode([3]byte{0x00, addr, 0x18}, []byte{0x80, 0xA1, 0x00})
	if err != nil {
		t.Fatalf("encode ack: %v", err)
	}
	return frame
}

func sensorReplyFrame(t *testing.T, addr byte) []byte {
	t.Helper()
	frame, err := protocol.Encode([3]byte{0x00, addr, 0x1A}, []byte{0x80, 0xEF, 0x00, 0x00, 0x2C, 0x00, 0x1A, 0x08, 0x00})
	if err != nil {
		t.Fatalf("encode sensor reply: %v", err)
	}
	return frame
}

func extraReplyFrame(t *testing.T, addr byte) []byte {
	t.Helper()
	frame, err := protocol.Encode([3]byte{0x00, addr, 0x18}, []byte{0x80, 0xE8, 0x00, 0x00, 0x2C, 0x10, 0x20})
	if err != nil {
		t.Fatalf("encode extra reply: %v", err)
	}
	return frame
}

// readySession brings a fresh session out of Start via one full broadcast
// carrying the given mode/power/humid bits, and returns it along with its
// sink and events fakes.
func readySession(t *testing.T, now time.Time, mode byte, power, humid bool) (*Session, *fakeSink, *fakeEvents) {
	t.Helper()
	sink := &fakeSink{}
	ev := &fakeEvents{}
	s := New(DefaultAddr, sink, ev)

	var b0 byte = mode << 5
	if power {
		b0 |= 0x01
	}
	var b2 byte
	if humid {
		b2 |= 0x02
	}
	payload := make([]byte, 8)
	payload[0] = b0
	payload[2] = b2
	payload[7] = 0x03 << 4 // save-confirm echo defaults to "off"

	s.OnFrame(now, fullBroadcastFrame(t, payload))
	if s.State() != acfsm.Idle {
		t.Fatalf("State() after first broadcast = %v, want Idle", s.State())
	}
	if ev.readies != 1 {
		t.Fatalf("OnReady calls = %d, want 1", ev.readies)
	}
	return s, sink, ev
}

func TestSetPowerNotReadyBeforeFirstBroadcast(t *testing.T) {
	s := New(DefaultAddr, &fakeSink{}, &fakeEvents{})
	err := s.SetPower("1")
	if _, ok := err.(*NotReadyError); !ok {
		t.Fatalf("SetPower before ready: err = %v, want *NotReadyError", err)
	}
}

func TestSetTempRejectsOutOfRange(t *testing.T) {
	s, _, _ := readySession(t, time.Unix(100, 0), 0x01, true, false) // heat
	if err := s.SetTemp(acmodel.MaxTemp + 1); err == nil {
		t.Fatal("SetTemp above MaxTemp: err = nil, want InvalidArgumentError")
	} else if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("SetTemp above MaxTemp: err = %v, want *InvalidArgumentError", err)
	}
}

func TestSetTempRejectsFanMode(t *testing.T) {
	s, _, _ := readySession(t, time.Unix(100, 0), 0x03, true, false) // fan
	err := s.SetTemp(22)
	if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("SetTemp in fan mode: err = %v, want *InvalidArgumentError", err)
	}
}

func TestSetModeInvalidCommand(t *testing.T) {
	s, _, _ := readySession(t, time.Unix(100, 0), 0x01, true, false)
	err := s.SetMode("Z")
	if _, ok := err.(*InvalidCommandError); !ok {
		t.Fatalf("SetMode(%q): err = %v, want *InvalidCommandError", "Z", err)
	}
}

func TestCommandAckConfirmCycle(t *testing.T) {
	now := time.Unix(1000, 0)
	s, sink, ev := readySession(t, now, 0x01, true, false) // heat

	if err := s.SetMode("C"); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	s.Tick(now) // dispatch: builds frame, enters Cmd
	if s.State() != acfsm.Cmd {
		t.Fatalf("State() after dispatch = %v, want Cmd", s.State())
	}

	now = now.Add(10 * time.Millisecond)
	s.Tick(now) // flush: sends the frame
	if len(sink.sent) != 1 {
		t.Fatalf("sink.sent = %d frames, want 1", len(sink.sent))
	}
	want, err := buildSetMode(DefaultAddr, 0x02)
	if err != nil {
		t.Fatalf("buildSetMode: %v", err)
	}
	if string(sink.sent[0]) != string(want) {
		t.Fatalf("sent frame = % x, want % x", sink.sent[0], want)
	}

	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, ackFrame(t, DefaultAddr))
	if s.State() != acfsm.WStat {
		t.Fatalf("State() after ack = %v, want WStat", s.State())
	}

	confirm := make([]byte, 8)
	confirm[0] = 0x02 << 5 // mode now cool
	confirm[7] = 0x03 << 4
	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, fullBroadcastFrame(t, confirm))
	if s.State() != acfsm.Idle {
		t.Fatalf("State() after confirming broadcast = %v, want Idle", s.State())
	}
	if m := s.Model(); m.Mode != 0x02 {
		t.Fatalf("Model().Mode = 0x%02x, want 0x02", m.Mode)
	}

	var sawWStat, sawIdle bool
	for _, st := range ev.states {
		if st == "wstat" {
			sawWStat = true
		}
		if st == "idle" {
			sawIdle = true
		}
	}
	if !sawWStat || !sawIdle {
		t.Fatalf("OnStateChange history = %v, want to include wstat and idle", ev.states)
	}
}

func TestHumidifierPursuitTwoCycle(t *testing.T) {
	now := time.Unix(2000, 0)
	s, sink, _ := readySession(t, now, 0x01, true, false) // heat, humid off

	if err := s.SetHumid("1"); err != nil {
		t.Fatalf("SetHumid: %v", err)
	}

	s.Tick(now) // dispatch toggle, enters HmdTgl
	if s.State() != acfsm.HmdTgl {
		t.Fatalf("State() after dispatch = %v, want HmdTgl", s.State())
	}
	now = now.Add(10 * time.Millisecond)
	s.Tick(now) // flush toggle
	if len(sink.sent) != 1 {
		t.Fatalf("sink.sent = %d, want 1", len(sink.sent))
	}

	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, ackFrame(t, DefaultAddr))
	if s.State() != acfsm.Humid {
		t.Fatalf("State() after ack = %v, want Humid", s.State())
	}

	// Broadcast still shows humid off: Humid isn't satisfied yet.
	stillOff := make([]byte, 8)
	stillOff[0] = 0x01<<5 | 0x01
	stillOff[7] = 0x03 << 4
	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, fullBroadcastFrame(t, stillOff))
	if s.State() != acfsm.Humid {
		t.Fatalf("State() after non-confirming broadcast = %v, want Humid", s.State())
	}

	// Humid has no bounded retry count: it re-toggles via HmdTgl on timeout,
	// indefinitely, until a confirming broadcast arrives.
	now = now.Add(time.Second) // Humid's deadline, same as every non-WStat wait
	s.Tick(now)
	if s.State() != acfsm.HmdTgl {
		t.Fatalf("State() after Humid timeout = %v, want HmdTgl", s.State())
	}
	now = now.Add(10 * time.Millisecond)
	s.Tick(now) // flush the re-toggle
	if len(sink.sent) != 2 {
		t.Fatalf("sink.sent = %d, want 2 after re-toggle", len(sink.sent))
	}

	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, ackFrame(t, DefaultAddr))
	if s.State() != acfsm.Humid {
		t.Fatalf("State() after second ack = %v, want Humid", s.State())
	}

	confirmOn := make([]byte, 8)
	confirmOn[0] = 0x01<<5 | 0x01
	confirmOn[2] = 0x02
	confirmOn[7] = 0x03 << 4
	now = now.Add(10 * time.Millisecond)
	s.OnFrame(now, fullBroadcastFrame(t, confirmOn))
	if s.State() != acfsm.Idle {
		t.Fatalf("State() after confirming broadcast = %v, want Idle", s.State())
	}
	if m := s.Model(); !m.Humid {
		t.Fatal("Model().Humid = false, want true")
	}
}

func TestSetHumidNoopWhenModeIncompatible(t *testing.T) {
	now := time.Unix(3000, 0)
	s, sink, ev := readySession(t, now, 0x02, true, false) // cool mode

	if err := s.SetHumid("1"); err != nil {
		t.Fatalf("SetHumid: %v", err)
	}
	s.Tick(now)
	if s.State() != acfsm.Idle {
		t.Fatalf("State() after no-op dispatch = %v, want Idle", s.State())
	}
	if len(sink.sent) != 0 {
		t.Fatalf("sink.sent = %d, want 0 for a no-op", len(sink.sent))
	}
	for _, st := range ev.states {
		if st == "hmdtgl" {
			t.Fatal("OnStateChange fired hmdtgl for a no-op set_humid")
		}
	}
}

func TestPeriodicPollDrainsAndFiresUpdateOnce(t *testing.T) {
	now := time.Unix(4000, 0)
	s, sink, ev := readySession(t, now, 0x01, true, false)

	now = now.Add(time.Millisecond)
	s.Tick(now) // idle tick #1: nothing queued yet, schedules the poll batch

	const totalQueries = 11 // 2 extra_query + 9 sensor_query
	for i := 0; i < totalQueries; i++ {
		now = now.Add(time.Millisecond)
		s.Tick(now) // dispatch next poll item

		st := s.State()
		if st != acfsm.Query1 && st != acfsm.Query2 {
			t.Fatalf("query %d: State() = %v, want Query1 or Query2", i, st)
		}

		now = now.Add(time.Millisecond)
		s.Tick(now) // flush
		if len(sink.sent) != i+1 {
			t.Fatalf("query %d: sink.sent = %d, want %d", i, len(sink.sent), i+1)
		}

		now = now.Add(time.Millisecond)
		if st == acfsm.Query1 {
			s.OnFrame(now, sensorReplyFrame(t, DefaultAddr))
		} else {
			s.OnFrame(now, extraReplyFrame(t, DefaultAddr))
		}
		if s.State() != acfsm.Idle {
			t.Fatalf("query %d: State() after reply = %v, want Idle", i, s.State())
		}
	}

	// One more tick lets the drained batch's pending update fire.
	now = now.Add(time.Millisecond)
	s.Tick(now)
	if ev.updates != 1 {
		t.Fatalf("OnUpdate calls = %d, want 1", ev.updates)
	}
}
