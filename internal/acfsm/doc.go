// Package acfsm implements the session's bus state machine: which outstanding
// request (if any) the session is waiting on a reply for, and the retry
// policy applied when the unit doesn't answer in time.
//
// The machine itself never touches the network; Tick reports when a frame
// needs (re)sending and the caller does the actual send, which keeps the
// retry policy testable without a real bus.
package acfsm
