package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toshiba-abbus/acprocessor/internal/acfsm"
	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
	"github.com/toshiba-abbus/acprocessor/internal/protocol"
)

// DefaultAddr is the bus address this processor identifies itself with when
// no other address is configured.
const DefaultAddr = 0x42

// pollInterval is how often the periodic sensor/extra query batch runs.
const pollInterval = 60 * time.Second

// workItem is one FIFO-queued unit of bus work. build runs once the machine
// is Idle and this item is popped; it returns the frame to transmit (nil for
// a no-op), the state to enter, and the target that confirms it (nil for
// states that wait on a specific reply rather than a model field). build may
// also record bookkeeping (such as which query id is in flight) on s.
type workItem struct {
	build       func(s *Session) (frame []byte, state acfsm.State, target acmodel.CommandTarget)
	partOfBatch bool
}

// Session owns the device model and bus state machine for one AB-bus
// session, and mediates between user-facing operations and the transport.
type Session struct {
	mu sync.Mutex

	addr byte
	sink Sink
	ev   Events

	model *acmodel.Model
	fsm   *acfsm.Machine

	queue   []workItem
	waiting []byte

	// currentIsBatch is true while the machine's outstanding wait belongs to
	// the periodic poll batch, so its completion (by reply or abandonment)
	// can be credited against batchRemaining.
	currentIsBatch bool
	batchRemaining int
	updatePending  bool

	lastPoll   time.Time
	havePolled bool

	pendingQueryID byte
}

// New constructs a Session. addr is this processor's own bus address (see
// DefaultAddr). sink and ev may be nil in tests that don't care about their
// side effects.
func New(addr byte, sink Sink, ev Events) *Session {
	s := &Session{
		addr:  addr,
		sink:  sink,
		ev:    ev,
		model: acmodel.New(),
		fsm:   acfsm.New(),
	}
	s.fire(func() { s.ev.OnStart() })
	return s
}

// Attach wires sink and ev onto a session constructed with nil collaborators,
// then fires OnStart on the newly attached ev. It exists for bootstrap code
// that must construct the session before the collaborators that depend on
// it (an MQTT client needs a *Session to hand inbound frames to, for
// instance) and recombine them once both sides exist.
func (s *Session) Attach(sink Sink, ev Events) {
	s.mu.Lock()
	s.sink = sink
	s.ev = ev
	s.mu.Unlock()
	s.fire(func() { s.ev.OnStart() })
}

func (s *Session) fire(f func()) {
	if s.ev == nil {
		return
	}
	f()
}

// Model returns a snapshot of the current device model. Callers must not
// mutate the returned value's map fields.
func (s *Session) Model() acmodel.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.model
}

// State returns the current bus state machine state.
func (s *Session) State() acfsm.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.State()
}

// Reset drops the work queue, clears any outstanding wait, and returns the
// machine to Start. It is called when the underlying transport bridge
// reconnects, since any command in flight at that point can no longer be
// trusted to reach the unit.
func (s *Session) Reset() {
	s.mu.Lock()
	s.queue = nil
	s.waiting = nil
	s.currentIsBatch = false
	s.batchRemaining = 0
	s.updatePending = false
	s.fsm.Reset()
	s.mu.Unlock()
	s.fire(func() { s.ev.OnStateChange(acfsm.Start.String()) })
}

// enqueue appends a work item; it is picked up by the next Tick once the
// machine is idle.
func (s *Session) enqueue(item workItem) {
	s.mu.Lock()
	s.queue = append(s.queue, item)
	s.mu.Unlock()
}

func (s *Session) checkReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fsm.State() == acfsm.Start {
		return &NotReadyError{}
	}
	return nil
}

// ---- user-facing operations ----

// SetPower requests the power field change to the setting whose short
// command is cmd ("1"/"0" per acmodel.PowerTable).
func (s *Session) SetPower(cmd string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	bits, ok := acmodel.CmdToBits(acmodel.PowerTable, cmd)
	if !ok {
		return &InvalidCommandError{Kind: "power", Got: cmd}
	}
	on := bits != 0
	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildSetPower(s.addr, on)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Cmd, acmodel.PowerTarget{Want: on}
	}})
	return nil
}

// SetMode requests the mode change to the mode whose short command is cmd.
func (s *Session) SetMode(cmd string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	bits, ok := acmodel.CmdToBits(acmodel.ModeTable, cmd)
	if !ok {
		return &InvalidCommandError{Kind: "mode", Got: cmd}
	}
	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildSetMode(s.addr, bits)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Cmd, acmodel.ModeTarget{Want: bits}
	}})
	return nil
}

// SetFan requests the fan level change to the level whose short command is cmd.
func (s *Session) SetFan(cmd string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	bits, ok := acmodel.CmdToBits(acmodel.FanTable, cmd)
	if !ok {
		return &InvalidCommandError{Kind: "fan", Got: cmd}
	}
	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildSetFan(s.addr, s.model, bits)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Cmd, acmodel.FanTarget{Want: bits}
	}})
	return nil
}

// tempCompatibleModes is the set of modes set_temp may be issued in; fan mode
// has no setpoint.
var tempCompatibleModes = map[byte]bool{0x01: true, 0x02: true, 0x04: true, 0x05: true, 0x06: true}

// SetTemp requests the setpoint change to temp degrees Celsius.
func (s *Session) SetTemp(temp int) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	if temp < acmodel.MinTemp || temp > acmodel.MaxTemp {
		return &InvalidArgumentError{Reason: "temperature out of range"}
	}

	s.mu.Lock()
	modeOK := tempCompatibleModes[s.model.Mode]
	s.mu.Unlock()
	if !modeOK {
		return &InvalidArgumentError{Reason: "current mode has no setpoint"}
	}

	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildSetTemp(s.addr, s.model, temp)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Cmd, acmodel.TempTarget{Want: temp}
	}})
	return nil
}

// SetSave requests the energy-save field change to the setting whose short
// command is cmd.
func (s *Session) SetSave(cmd string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	bits, ok := acmodel.CmdToBits(acmodel.SaveTable, cmd)
	if !ok {
		return &InvalidCommandError{Kind: "save", Got: cmd}
	}
	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildSetSave(s.addr, s.model, bits)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Ssave, acmodel.SaveTarget{Want: bits}
	}})
	return nil
}

// ResetFilter requests the filter-use counter be cleared.
func (s *Session) ResetFilter() error {
	if err := s.checkReady(); err != nil {
		return err
	}
	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		frame, err := buildResetFilter(s.addr)
		if err != nil {
			return nil, acfsm.Idle, nil
		}
		return frame, acfsm.Filter, acmodel.FilterTarget{}
	}})
	return nil
}

// SetHumid requests the humidifier reach the setting whose short command is
// cmd ("1"/"0" per acmodel.HumidTable). The humidifier has no direct set
// frame, only a toggle; pursuit is handled by the Humid/HmdTgl states, and
// whether a toggle is even needed is decided at dispatch time against the
// model then current.
func (s *Session) SetHumid(cmd string) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	bits, ok := acmodel.CmdToBits(acmodel.HumidTable, cmd)
	if !ok {
		return &InvalidCommandError{Kind: "humid", Got: cmd}
	}
	want := bits != 0

	s.enqueue(workItem{build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
		return s.startHumidPursuit(want)
	}})
	return nil
}

// startHumidPursuit decides, at dispatch time, whether set_humid is a no-op
// (humidifier already at target, or the current mode can't support it) or
// whether a toggle must be sent. Caller holds s.mu.
func (s *Session) startHumidPursuit(want bool) ([]byte, acfsm.State, acmodel.CommandTarget) {
	const heat, autoHeat = 0x01, 0x05
	if !s.model.Power || (s.model.Mode != heat && s.model.Mode != autoHeat) {
		return nil, acfsm.Idle, nil
	}
	if s.model.Humid == want {
		return nil, acfsm.Idle, nil
	}
	frame, err := buildToggleHumid(s.addr)
	if err != nil {
		return nil, acfsm.Idle, nil
	}
	return frame, acfsm.HmdTgl, acmodel.HumidTarget{Want: want}
}

// ---- inbound frame dispatch ----

// OnFrame parses and applies a raw inbound AB-bus frame. now is the time to
// stamp any resulting wait state with, the same clock Tick is driven from.
// Decode failures are logged at debug and otherwise ignored; the bus side of
// the system never surfaces a decode error to a caller.
func (s *Session) OnFrame(now time.Time, data []byte) {
	f, err := protocol.Decode(data)
	if err != nil {
		logging.Debug("dropping unparseable frame", zap.Error(err))
		return
	}
	logging.LogFrame("rx", data)

	s.mu.Lock()
	kind := protocol.Classify(f, s.addr)

	// A completed poll batch only marks updatePending here; OnUpdate fires
	// from the next idle Tick.
	var (
		fireReady    bool
		statusKind   string
		stateChanged string
	)

	switch kind {
	case protocol.KindBroadcastFull, protocol.KindBroadcastCompact:
		if err := s.model.UpdateFromBroadcast(f.Payload); err == nil {
			if kind == protocol.KindBroadcastFull {
				statusKind = "full"
			} else {
				statusKind = "compact"
			}
			switch s.fsm.State() {
			case acfsm.Start:
				s.fsm.GoIdle()
				fireReady = true
				stateChanged = acfsm.Idle.String()
			default:
				if s.fsm.Satisfied(s.model) {
					s.fsm.GoIdle()
					stateChanged = acfsm.Idle.String()
					s.creditBatchCompletionLocked()
				}
			}
		}

	case protocol.KindParams:
		s.model.UpdateFromParams(f.Payload)

	case protocol.KindAck:
		switch s.fsm.State() {
		case acfsm.Cmd:
			s.fsm.ReplyArrived(now, acfsm.WStat, s.fsm.Target())
			stateChanged = acfsm.WStat.String()
		case acfsm.HmdTgl:
			s.fsm.ReplyArrived(now, acfsm.Humid, s.fsm.Target())
			stateChanged = acfsm.Humid.String()
		}

	case protocol.KindSensorReply:
		if s.fsm.State() == acfsm.Query1 {
			_ = s.model.UpdateFromSensorReply(s.pendingQueryID, f.Payload)
			s.fsm.ReplyArrived(now, acfsm.Idle, nil)
			stateChanged = acfsm.Idle.String()
			s.creditBatchCompletionLocked()
		}

	case protocol.KindExtraReply:
		if s.fsm.State() == acfsm.Query2 {
			_ = s.model.UpdateFromExtraReply(s.pendingQueryID, f.Payload)
			s.fsm.ReplyArrived(now, acfsm.Idle, nil)
			stateChanged = acfsm.Idle.String()
			s.creditBatchCompletionLocked()
		}
	}
	s.mu.Unlock()

	if statusKind != "" {
		s.fire(func() { s.ev.OnStatus(statusKind) })
	}
	if fireReady {
		s.fire(func() { s.ev.OnReady() })
	}
	if stateChanged != "" {
		s.fire(func() { s.ev.OnStateChange(stateChanged) })
	}
}

// creditBatchCompletionLocked marks one periodic-poll query as finished, by
// reply or by abandonment, and reports whether that was the batch's last
// outstanding query. Caller holds s.mu.
func (s *Session) creditBatchCompletionLocked() bool {
	if !s.currentIsBatch {
		return false
	}
	s.currentIsBatch = false
	if s.batchRemaining > 0 {
		s.batchRemaining--
	}
	if s.batchRemaining == 0 {
		s.updatePending = true
		return true
	}
	return false
}

// ---- scheduler ----

// Tick drives the session's time-based behavior: flushing any frame queued
// for transmission, applying the bus wait's retry policy, and servicing the
// idle-tick priority order (queued operations first, then a just-finished
// poll's update callback, then the periodic poll itself). Call it from a
// single goroutine at regular intervals, roughly once per bus cycle.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	toSend := s.waiting
	s.waiting = nil
	s.mu.Unlock()

	if toSend != nil && s.sink != nil {
		logging.LogFrame("tx", toSend)
		if err := s.sink.Send(toSend); err != nil {
			logging.Warn("send failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	outcome := s.fsm.Tick(now)

	var (
		stateChanged string
		updateNow    bool
	)
	switch {
	case outcome.Abandoned:
		stateChanged = acfsm.Idle.String()
		if s.creditBatchCompletionLocked() {
			updateNow = true
		}
	case outcome.Resend != nil:
		s.waiting = outcome.Resend
	}

	var toDispatch *workItem
	if s.fsm.State() == acfsm.Idle {
		switch {
		case len(s.queue) > 0:
			item := s.queue[0]
			s.queue = s.queue[1:]
			toDispatch = &item
		case s.updatePending:
			s.updatePending = false
			updateNow = true
		case !s.havePolled || now.Sub(s.lastPoll) >= pollInterval:
			s.enqueuePollBatchLocked()
			s.lastPoll = now
			s.havePolled = true
		}
	}
	s.mu.Unlock()

	if toDispatch != nil {
		s.dispatch(now, *toDispatch)
	}
	if stateChanged != "" {
		s.fire(func() { s.ev.OnStateChange(stateChanged) })
	}
	if updateNow {
		s.fire(func() { s.ev.OnUpdate() })
	}
}

// dispatch runs a popped work item's build function and, if it produced a
// frame, enters the machine's wait state and queues the frame for the next
// Tick to flush.
func (s *Session) dispatch(now time.Time, item workItem) {
	s.mu.Lock()
	frame, state, target := item.build(s)
	var stateChanged string
	if frame != nil {
		s.fsm.Enter(now, state, frame, target)
		s.waiting = frame
		s.currentIsBatch = item.partOfBatch
		stateChanged = state.String()
	}
	s.mu.Unlock()

	if stateChanged != "" {
		s.fire(func() { s.ev.OnStateChange(stateChanged) })
	}
}

// enqueuePollBatchLocked queues the fixed periodic poll: two extra queries
// (power levels, filter hours) followed by nine individual sensor queries,
// one id per frame. Caller holds s.mu.
func (s *Session) enqueuePollBatchLocked() {
	extraIDs := []byte{qidPowerLevels, qidFilterHours}
	s.batchRemaining = len(extraIDs) + len(sensorQueryIDs)

	for _, qid := range extraIDs {
		qid := qid
		s.queue = append(s.queue, workItem{partOfBatch: true, build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
			frame, err := buildExtraQuery(s.addr, qid)
			if err != nil {
				return nil, acfsm.Idle, nil
			}
			s.pendingQueryID = qid
			return frame, acfsm.Query2, nil
		}})
	}
	for _, qid := range sensorQueryIDs {
		qid := qid
		s.queue = append(s.queue, workItem{partOfBatch: true, build: func(s *Session) ([]byte, acfsm.State, acmodel.CommandTarget) {
			frame, err := buildSensorQuery(s.addr, qid)
			if err != nil {
				return nil, acfsm.Idle, nil
			}
			s.pendingQueryID = qid
			return frame, acfsm.Query1, nil
		}})
	}
}
