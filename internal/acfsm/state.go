package acfsm

import "time"

// State identifies what, if anything, a session is waiting on a bus reply for.
type State int

const (
	// Start is the machine's initial state, before the first broadcast has
	// been observed. Unlike Idle, no queued work is dispatched and user
	// operations are refused until a broadcast moves the machine to Idle.
	Start State = iota
	// Idle means no command or query is outstanding; the next queued
	// operation may be started immediately.
	Idle
	// Cmd is waiting for the ack reply to a set_power/set_mode/set_fan/
	// set_temp command.
	Cmd
	// Query1 is waiting for the reply to a sensor_query.
	Query1
	// Query2 is waiting for the reply to an extra_query.
	Query2
	// Ssave is waiting, after a set_save command, for a full broadcast whose
	// save-mode echo confirms the new setting.
	Ssave
	// Filter is waiting, after a reset_filter command, for a broadcast that
	// shows the filter flag cleared.
	Filter
	// Humid is a second wait after HmdTgl's ack, for the broadcast that
	// confirms the humidifier actually changed state.
	Humid
	// HmdTgl is waiting for the ack reply to a toggle_humid command.
	HmdTgl
	// WStat is waiting for a state broadcast that confirms a command's
	// target field, after its ack has already arrived. It has a longer
	// deadline than the other states because the unit may take longer than
	// one bus cycle to settle into the new state.
	WStat
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Idle:
		return "idle"
	case Cmd:
		return "cmd"
	case Query1:
		return "query1"
	case Query2:
		return "query2"
	case Ssave:
		return "ssave"
	case Filter:
		return "filter"
	case Humid:
		return "humid"
	case HmdTgl:
		return "hmdtgl"
	case WStat:
		return "wstat"
	default:
		return "unknown"
	}
}

// waiting reports whether s has an outstanding reply (and so participates in
// the retry deadline); Start and Idle do not.
func (s State) waiting() bool {
	return s != Start && s != Idle
}

// deadline is how long the machine waits in s before retransmitting.
func (s State) deadline() time.Duration {
	if s == WStat {
		return 2 * time.Second
	}
	return time.Second
}

const maxAttempts = 5
