package session

// Sink hands a single outbound frame off to the transport. It is only ever
// called from Tick.
type Sink interface {
	Send(frame []byte) error
}

// Events receives the session's lifecycle and status notifications. All
// methods are called synchronously from whichever goroutine calls OnFrame or
// Tick; implementations that publish to an external bus should not block for
// long inside these.
type Events interface {
	// OnStart fires when the session is constructed with non-nil Events,
	// and again from Attach.
	OnStart()
	// OnReady fires when a broadcast moves the machine out of Start: the
	// first broadcast after construction and the first after each Reset.
	OnReady()
	// OnStateChange fires on every state transition, named per acfsm.State.String.
	OnStateChange(name string)
	// OnStatus fires after every broadcast-driven model update. kind is
	// "full" or "compact".
	OnStatus(kind string)
	// OnUpdate fires once a periodic sensor/extra query batch has fully drained.
	OnUpdate()
}
