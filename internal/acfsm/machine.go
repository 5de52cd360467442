package acfsm

import (
	"time"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
)

// Outcome is what Tick decided should happen.
type Outcome struct {
	// Resend is non-nil when frame bytes should be (re)sent: either an
	// identical retransmit, or a fresh command reissued after a confirmation
	// wait timed out.
	Resend []byte
	// Abandoned is true when the machine gave up after the final retry and
	// returned to Idle; the caller's queued operation is lost.
	Abandoned bool
	// State is the machine's state after the tick.
	State State
}

// Machine is a session's bus wait state: which reply or confirmation (if any)
// is outstanding, and since when. It is not safe for concurrent use; callers
// serialize access the same way they serialize the outbound sink.
type Machine struct {
	state      State
	attempt    int
	deadlineAt time.Time
	pending    []byte
	target     acmodel.CommandTarget
}

// New returns a machine in its Start state.
func New() *Machine {
	return &Machine{state: Start}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Pending returns the frame bytes the machine would retransmit, or nil.
func (m *Machine) Pending() []byte { return m.pending }

// Target returns the confirmation target for the current wait, or nil.
func (m *Machine) Target() acmodel.CommandTarget { return m.target }

// Enter begins waiting in state s for a reply to (or confirmation of) frame.
// target is consulted by Satisfied once a confirming broadcast arrives; it
// may be nil for states that only wait for a specific reply frame, not a
// model field (Query1, Query2).
func (m *Machine) Enter(now time.Time, s State, frame []byte, target acmodel.CommandTarget) {
	m.state = s
	m.attempt = 0
	m.deadlineAt = now.Add(s.deadline())
	m.pending = frame
	m.target = target
}

// GoIdle returns the machine to Idle, discarding any outstanding wait.
func (m *Machine) GoIdle() {
	m.state = Idle
	m.attempt = 0
	m.pending = nil
	m.target = nil
}

// Reset returns the machine to Start, as when the MQTT bridge disconnects and
// reconnects. Any outstanding command is abandoned silently; the bridge
// transition is the more interesting event to have logged, not the command
// it interrupted.
func (m *Machine) Reset() {
	m.state = Start
	m.attempt = 0
	m.pending = nil
	m.target = nil
}

// ReplyArrived is called when a reply frame matching the current wait's kind
// has been received (ack, sensor reply, or extra reply). next is the state to
// move to afterward: WStat or Humid to wait for a confirming broadcast, or
// Idle when no further confirmation is needed (Query1, Query2).
func (m *Machine) ReplyArrived(now time.Time, next State, target acmodel.CommandTarget) {
	if next == Idle {
		m.GoIdle()
		return
	}
	m.Enter(now, next, m.pending, target)
}

// Satisfied reports whether a freshly updated model confirms the target this
// machine is waiting on. Only WStat, Humid, Ssave and Filter resolve by
// watching the model rather than by an addressed reply, so it is a no-op
// (returns false) in every other state.
func (m *Machine) Satisfied(model *acmodel.Model) bool {
	switch m.state {
	case WStat, Humid, Ssave, Filter:
	default:
		return false
	}
	if m.target == nil {
		return false
	}
	return m.target.Confirms(model)
}

// Tick advances time and applies the retry policy for the current state.
//
// Cmd, Query1, Query2, Ssave, Filter and HmdTgl retransmit the identical
// outstanding frame on timeout, up to maxAttempts, after which the machine
// abandons the wait and returns to Idle.
//
// WStat and Humid wait on a model confirmation rather than a specific reply;
// neither gives up on its own. A WStat timeout reissues the original command
// via Cmd; a Humid timeout reissues the toggle via HmdTgl. The cycle can
// persist indefinitely while acks keep arriving; it ends when the awaited
// broadcast arrives, when the reissued Cmd or HmdTgl wait exhausts its own
// retries, or when the session is reset.
func (m *Machine) Tick(now time.Time) Outcome {
	if !m.state.waiting() || now.Before(m.deadlineAt) {
		return Outcome{State: m.state}
	}

	switch m.state {
	case WStat:
		logging.LogRetry(m.state.String(), m.attempt+1, false)
		frame, target := m.pending, m.target
		m.Enter(now, Cmd, frame, target)
		return Outcome{Resend: frame, State: Cmd}

	case Humid:
		logging.LogRetry(m.state.String(), m.attempt+1, false)
		frame, target := m.pending, m.target
		m.Enter(now, HmdTgl, frame, target)
		return Outcome{Resend: frame, State: HmdTgl}

	default:
		m.attempt++
		if m.attempt > maxAttempts {
			logging.LogRetry(m.state.String(), m.attempt, true)
			m.GoIdle()
			return Outcome{Abandoned: true, State: Idle}
		}
		logging.LogRetry(m.state.String(), m.attempt, false)
		m.deadlineAt = now.Add(m.state.deadline())
		return Outcome{Resend: m.pending, State: m.state}
	}
}
