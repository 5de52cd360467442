package acfsm

import (
	"bytes"
	"testing"
	"time"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
)

func TestMachineRetryThenAbandon(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	frame := []byte{0xAA}
	m.Enter(now, Cmd, frame, acmodel.PowerTarget{Want: true})

	if a := m.Tick(now); a.Resend != nil || a.Abandoned {
		t.Fatalf("Tick before deadline = %+v, want no-op", a)
	}

	for i := 0; i < maxAttempts; i++ {
		now = now.Add(Cmd.deadline())
		a := m.Tick(now)
		if a.Abandoned {
			t.Fatalf("Tick abandoned early at attempt %d", i+1)
		}
		if !bytes.Equal(a.Resend, frame) {
			t.Fatalf("Tick attempt %d: Resend = %v, want %v", i+1, a.Resend, frame)
		}
		if a.State != Cmd {
			t.Fatalf("Tick attempt %d: State = %v, want Cmd", i+1, a.State)
		}
	}

	now = now.Add(Cmd.deadline())
	final := m.Tick(now)
	if !final.Abandoned {
		t.Fatal("Tick after maxAttempts retries = not abandoned, want abandoned")
	}
	if m.State() != Idle {
		t.Fatalf("State() after abandonment = %v, want Idle", m.State())
	}
}

func TestMachineReplyArrivedAdvancesToWStat(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	m.Enter(now, Cmd, []byte{0xAA}, acmodel.PowerTarget{Want: true})

	m.ReplyArrived(now, WStat, acmodel.PowerTarget{Want: true})
	if m.State() != WStat {
		t.Fatalf("State() after ReplyArrived = %v, want WStat", m.State())
	}

	model := acmodel.New()
	model.Power = false
	if m.Satisfied(model) {
		t.Fatal("Satisfied() = true before the model reflects the target")
	}

	model.Power = true
	if !m.Satisfied(model) {
		t.Fatal("Satisfied() = false once the model reflects the target")
	}
}

func TestMachineReplyArrivedDirectlyIdle(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	m.Enter(now, Query1, []byte{0xBB}, nil)

	m.ReplyArrived(now, Idle, nil)
	if m.State() != Idle {
		t.Fatalf("State() after ReplyArrived(Idle) = %v, want Idle", m.State())
	}
}

func TestMachineWStatTimeoutReissuesViaCmd(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	frame := []byte{0xCC}
	target := acmodel.PowerTarget{Want: true}
	m.Enter(now, Cmd, frame, target)
	m.ReplyArrived(now, WStat, target)

	now = now.Add(WStat.deadline())
	a := m.Tick(now)
	if a.State != Cmd {
		t.Fatalf("Tick after WStat timeout: State = %v, want Cmd", a.State)
	}
	if !bytes.Equal(a.Resend, frame) {
		t.Fatalf("Tick after WStat timeout: Resend = %v, want %v", a.Resend, frame)
	}
	if m.State() != Cmd {
		t.Fatalf("State() after WStat timeout = %v, want Cmd", m.State())
	}
}

func TestMachineHumidTimeoutReissuesViaHmdTgl(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	toggle := []byte{0xDD}
	target := acmodel.HumidTarget{Want: true}
	m.Enter(now, HmdTgl, toggle, target)
	m.ReplyArrived(now, Humid, target)

	now = now.Add(Humid.deadline())
	a := m.Tick(now)
	if a.State != HmdTgl {
		t.Fatalf("Tick after Humid timeout: State = %v, want HmdTgl", a.State)
	}
	if !bytes.Equal(a.Resend, toggle) {
		t.Fatalf("Tick after Humid timeout: Resend = %v, want %v", a.Resend, toggle)
	}
}

func TestMachineReset(t *testing.T) {
	m := New()
	now := time.Unix(0, 0)
	m.Enter(now, Cmd, []byte{0xAA}, nil)

	m.Reset()
	if m.State() != Start {
		t.Fatalf("State() after Reset = %v, want Start", m.State())
	}
}

func TestWStatLongerDeadline(t *testing.T) {
	if WStat.deadline() != 2*time.Second {
		t.Fatalf("WStat.deadline() = %v, want 2s", WStat.deadline())
	}
	if Cmd.deadline() != 1*time.Second {
		t.Fatalf("Cmd.deadline() = %v, want 1s", Cmd.deadline())
	}
}
