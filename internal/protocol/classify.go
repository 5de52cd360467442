package protocol

// Kind is the coarse classification of a decoded frame.
type Kind int

const (
	// KindOther is any frame that doesn't match one of the recognized shapes.
	// It is not an error; the bus carries traffic this processor has no
	// reason to interpret.
	KindOther Kind = iota
	// KindBroadcastFull is an unsolicited full-state broadcast (opc1 0x58).
	KindBroadcastFull
	// KindBroadcastCompact is an unsolicited compact-state broadcast (opc1 0x1C).
	KindBroadcastCompact
	// KindParams is the unit's broadcast parameter frame (tx 0x00, rx 0x52, opc1 0x11).
	KindParams
	// KindAck is an addressed acknowledgement reply to a command this session sent.
	KindAck
	// KindSensorReply is an addressed reply to a sensor_query.
	KindSensorReply
	// KindExtraReply is an addressed reply to an extra_query.
	KindExtraReply
)

func (k Kind) String() string {
	switch k {
	case KindBroadcastFull:
		return "broadcast_full"
	case KindBroadcastCompact:
		return "broadcast_compact"
	case KindParams:
		return "params"
	case KindAck:
		return "ack"
	case KindSensorReply:
		return "sensor_reply"
	case KindExtraReply:
		return "extra_reply"
	default:
		return "other"
	}
}

const (
	addrBroadcastRx = 0xFE
	addrParamsRx    = 0x52

	opc1BroadcastFull    = 0x58
	opc1BroadcastCompact = 0x1C
	opc1Params           = 0x11
	opc1Ack              = 0x18
	opc1SensorReply      = 0x1A
	opc1ExtraReply       = 0x18

	modeByteReply = 0x80

	opc2Ack         = 0xA1
	opc2SensorReply = 0xEF
	opc2ExtraReply  = 0xE8
)

// Classify categorizes a decoded frame. sessionAddr is this processor's own
// bus address, needed to recognize frames addressed back to it.
func Classify(f *Frame, sessionAddr byte) Kind {
	if f.TxAddr == 0x00 && f.RxAddr == addrBroadcastRx {
		switch f.Opc1 {
		case opc1BroadcastFull:
			return KindBroadcastFull
		case opc1BroadcastCompact:
			return KindBroadcastCompact
		}
		return KindOther
	}

	if f.TxAddr == 0x00 && f.RxAddr == addrParamsRx && f.Opc1 == opc1Params {
		return KindParams
	}

	if f.RxAddr == sessionAddr {
		switch {
		case f.Opc1 == opc1SensorReply && f.ModeByte == modeByteReply && f.Opc2 == opc2SensorReply:
			return KindSensorReply
		case f.Opc1 == opc1ExtraReply && f.ModeByte == modeByteReply && f.Opc2 == opc2ExtraReply:
			return KindExtraReply
		case f.Opc1 == opc1Ack && f.ModeByte == modeByteReply && f.Opc2 == opc2Ack:
			return KindAck
		}
		return KindOther
	}

	return KindOther
}
