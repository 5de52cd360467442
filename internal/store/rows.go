package store

import "time"

// PacketRow is one logged AB-bus frame, direction "rx" or "tx".
type PacketRow struct {
	Direction  string
	Payload    []byte
	Status     string // "ok", "decode_error", or a protocol.Classify kind
	RecordedAt time.Time
}

// StatusRow mirrors the fields published on <root>/status and <root>/update,
// captured together so a single row reconstructs a full snapshot.
type StatusRow struct {
	Power      bool
	Mode       string
	Fan        string
	Setpoint   int
	Temp       int
	Save       string
	Humid      bool
	Clean      bool
	Filter     bool
	Vent       bool
	PwrLv1     byte
	PwrLv2     byte
	FilterTime uint16
	RecordedAt time.Time
}
