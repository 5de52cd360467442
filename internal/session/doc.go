// Package session owns the air conditioner's live device model and bus state
// machine, and is the single point of contact for both directions of
// traffic: user-facing control operations in, status and telemetry callbacks
// out.
//
// A Session serializes everything onto one logical bus: user operations are
// queued and dispatched one at a time; inbound frames are parsed and applied
// to the model immediately, whether or not a command is outstanding, since
// that is how a command's effect is confirmed. The outbound sink is only
// ever written from Tick, never from inside OnFrame or one of the
// operations (SetPower, SetMode, ...), so a transport implementation's own
// goroutine never races with the main loop's writes.
package session
