package protocol

// Frame is a decoded AB-bus frame. Payload holds only the application data
// that follows mode_byte and opc2; it does not include either of them or the
// trailing checksum.
type Frame struct {
	TxAddr   byte
	RxAddr   byte
	Opc1     byte
	Length   byte
	ModeByte byte
	Opc2     byte
	Payload  []byte
	Checksum byte

	// Raw is the complete frame as it appeared on (or will appear on) the wire,
	// checksum included.
	Raw []byte
}

// checksum computes the XOR of every byte in data except the last, which is
// assumed to be (or to become) the checksum byte itself.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data[:len(data)-1] {
		sum ^= b
	}
	return sum
}

// Encode assembles a frame from a header (tx_addr, rx_addr, opc1) and a body.
// body is mode_byte, opc2 and the application payload concatenated, i.e.
// everything that belongs between the length byte and the checksum; this
// matches how the command frame templates are specified (see the session
// package's command builders). The length byte and trailing checksum are
// computed and appended automatically.
func Encode(header [3]byte, body []byte) ([]byte, error) {
	if len(body) >= 255 {
		return nil, &PayloadTooLargeError{Len: len(body)}
	}

	frame := make([]byte, 0, 3+1+len(body)+1)
	frame = append(frame, header[0], header[1], header[2])
	frame = append(frame, byte(len(body)))
	frame = append(frame, body...)
	frame = append(frame, 0) // checksum placeholder
	frame[len(frame)-1] = checksum(frame)
	return frame, nil
}

// Decode parses and checksum-validates a raw frame.
func Decode(data []byte) (*Frame, error) {
	if len(data) < 7 {
		return nil, &FrameTooShortError{Got: len(data)}
	}

	declaredLen := int(data[3])
	bodyLen := len(data) - 5 // everything between the length byte and the checksum
	if declaredLen != bodyLen {
		return nil, &LengthMismatchError{Declared: declaredLen, Got: bodyLen}
	}

	want := data[len(data)-1]
	got := checksum(data)
	if want != got {
		return nil, &ChecksumError{Want: want, Got: got}
	}

	n := declaredLen - 2
	if n < 0 {
		return nil, &LengthMismatchError{Declared: declaredLen, Got: bodyLen}
	}

	payload := make([]byte, n)
	copy(payload, data[6:6+n])

	raw := make([]byte, len(data))
	copy(raw, data)

	return &Frame{
		TxAddr:   data[0],
		RxAddr:   data[1],
		Opc1:     data[2],
		Length:   data[3],
		ModeByte: data[4],
		Opc2:     data[5],
		Payload:  payload,
		Checksum: want,
		Raw:      raw,
	}, nil
}
