package peerconn

import (
	"fmt"
	"time"
)

// The reactor's side of a connection, passed to each callback.
type Transport interface {
	// Bytes received from the peer and not yet consumed.
	Input() []byte
	// Discards the first n bytes of input.
	Consume(n int)
	// Queues bytes to send to the peer. It mustn't block: output is sent by the reactor between
	// callbacks. The bytes are copied.
	Write(b []byte)
}

type ExpectKind int

const (
	// Call BytesReady once at least N bytes of input are available.
	ExpectBytes ExpectKind = iota
	// Call Flushed once all output has been sent.
	ExpectFlush
)

func (k ExpectKind) String() string {
	switch k {
	case ExpectBytes:
		return "bytes"
	case ExpectFlush:
		return "flush"
	default:
		return fmt.Sprintf("ExpectKind(%d)", int(k))
	}
}

// What a connection is waiting for. If Deadline passes first, the reactor calls Timeout.
type Expectation struct {
	Kind     ExpectKind
	N        int
	Deadline time.Time
}

func (e Expectation) String() string {
	if e.Kind == ExpectBytes {
		return fmt.Sprintf("%v bytes by %v", e.N, e.Deadline.Format(time.RFC3339Nano))
	}
	return fmt.Sprintf("flush by %v", e.Deadline.Format(time.RFC3339Nano))
}
