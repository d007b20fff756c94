package peer_protocol

import (
	"errors"
	"strconv"
)

// The peer's handshake can't be used for this connection. Connections are dropped on these and
// never retried.
type HandshakeError struct {
	Reason string
}

func (e *HandshakeError) Error() string {
	return "peer_protocol: bad handshake: " + e.Reason
}

type UnknownMessageTypeError struct {
	Type MessageType
}

func (e *UnknownMessageTypeError) Error() string {
	return "peer_protocol: unknown message type " + strconv.Itoa(int(e.Type))
}

// The payload size isn't valid for the message type.
type PayloadLengthError struct {
	Type MessageType
	Len  int
}

func (e *PayloadLengthError) Error() string {
	return "peer_protocol: " + e.Type.String() + " message has bad payload length " + strconv.Itoa(e.Len)
}

type MessageTooLongError struct {
	Len Integer
	Max Integer
}

func (e *MessageTooLongError) Error() string {
	return "peer_protocol: message length " + strconv.FormatUint(e.Len.Uint64(), 10) +
		" exceeds maximum " + strconv.FormatUint(e.Max.Uint64(), 10)
}

var ErrBitfieldSpareBits = errors.New("peer_protocol: bitfield has spare bits set")
