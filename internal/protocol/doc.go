// Package protocol implements the AB-bus frame codec: the wire format shared
// by every message exchanged with the Toshiba air conditioner's two-wire
// field bus.
//
// # Frame layout
//
// Every frame on the wire has the same fixed shape:
//
//	[0] tx_addr
//	[1] rx_addr
//	[2] opc1
//	[3] length
//	[4] mode_byte
//	[5] opc2
//	[6..6+n] payload   (n = length - 2)
//	[6+n] checksum
//
// length counts mode_byte, opc2 and payload together, so length == len(payload)+2
// always holds, and the total frame size is 7+len(payload) bytes. checksum is
// the XOR of every byte in the frame except itself.
//
// # Classification
//
// Decode does not interpret mode_byte, opc2 or payload; Classify assigns a
// decoded frame a Kind (full or compact broadcast, params, ack, sensor reply,
// extra reply, or other) by inspecting tx_addr, rx_addr, opc1 and, for
// addressed replies, mode_byte and opc2. Callers that need the bit-level meaning of a broadcast
// or reply payload belong to a higher layer; this package only hands back the
// classified, checksum-verified bytes.
package protocol
