package peerconn

import (
	"errors"
	"strconv"
)

var (
	// Returned by callbacks after the connection has closed.
	ErrClosed = errors.New("peerconn: connection closed")
	// A deadline passed while waiting for input or a flush.
	ErrTimeout = errors.New("peerconn: timed out")
	// The peer closed the stream.
	ErrPeerClosed = errors.New("peerconn: closed by peer")
	// Bitfields are only allowed as the first message after the handshake.
	ErrUnexpectedBitfield = errors.New("peerconn: bitfield after first message")
)

type PieceIndexError struct {
	Index     int
	NumPieces int
}

func (e *PieceIndexError) Error() string {
	return "peerconn: piece index " + strconv.Itoa(e.Index) + " out of range for " + strconv.Itoa(e.NumPieces) + " pieces"
}
