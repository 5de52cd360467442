package session

import "fmt"

// InvalidCommandError is returned when a short command code is empty or not
// present in the table for its kind (mode, fan, save, humid, power).
type InvalidCommandError struct {
	Kind string
	Got  string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("session: invalid %s command %q", e.Kind, e.Got)
}

// InvalidArgumentError is returned when an argument is the wrong type, out of
// range, or incompatible with the current model state (set_temp while in fan
// mode, for instance).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("session: invalid argument: %s", e.Reason)
}

// NotReadyError is returned by any user-facing operation while the session
// has not yet observed a first broadcast (state Start).
type NotReadyError struct{}

func (e *NotReadyError) Error() string {
	return "session: not ready: no broadcast observed yet"
}

// DecodeError wraps a frame codec failure encountered by OnFrame. It is
// never returned to a user-facing caller; it is logged and the frame is
// dropped.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("session: decode: %v", e.Cause) }
func (e *DecodeError) Unwrap() error { return e.Cause }
