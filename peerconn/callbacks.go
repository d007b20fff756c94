package peerconn

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/anacrolix/log"
	"github.com/anacrolix/missinggo/v2/panicif"

	pp "github.com/bitcore/bitcore/peer_protocol"
	"github.com/bitcore/bitcore/types"
)

func (c *Conn) setExpect(kind ExpectKind, n int, timeout time.Duration) Expectation {
	c.expect = Expectation{
		Kind:     kind,
		N:        n,
		Deadline: c.cfg.now().Add(timeout),
	}
	return c.expect
}

func (c *Conn) expectHandshakeBytes(n int) (Expectation, error) {
	return c.setExpect(ExpectBytes, n, c.cfg.HandshakeTimeout), nil
}

func (c *Conn) expectMessage() (Expectation, error) {
	c.state = stateAwaitHeader
	return c.setExpect(ExpectBytes, pp.LengthPrefixLen, c.cfg.MessageTimeout), nil
}

// Start is called once when the reactor has the connection.
func (c *Conn) Start(tr Transport) (Expectation, error) {
	if c.state == stateClosed {
		return Expectation{}, ErrClosed
	}
	panicif.NotEq(c.state, stateNew)
	switch c.seed {
	case Connect:
		c.writeHandshake(tr)
		c.state = stateSendHandshake
		return c.setExpect(ExpectFlush, 0, c.cfg.HandshakeTimeout), nil
	case Accept:
		c.state = stateAwaitPstrLen
		return c.expectHandshakeBytes(1)
	default:
		panic(c.seed)
	}
}

// BytesReady is called when the input holds at least the expected number of bytes.
func (c *Conn) BytesReady(tr Transport) (Expectation, error) {
	if c.state == stateClosed {
		return Expectation{}, ErrClosed
	}
	panicif.NotEq(c.expect.Kind, ExpectBytes)
	in := tr.Input()
	if len(in) < c.expect.N {
		return c.expect, nil
	}
	switch c.state {
	case stateAwaitPstrLen:
		// The length byte is left in the input so the handshake parses as a whole.
		c.need = pp.HandshakeLen(in[0])
		c.state = stateAwaitHandshake
		return c.expectHandshakeBytes(c.need)
	case stateAwaitHandshake:
		return c.onHandshake(tr, in[:c.need])
	case stateAwaitHeader:
		length := pp.Integer(binary.BigEndian.Uint32(in))
		tr.Consume(pp.LengthPrefixLen)
		if length == 0 {
			vars.Add("keepalives received", 1)
			return c.expectMessage()
		}
		if length > c.cfg.MaxMessageLength {
			return c.close(&pp.MessageTooLongError{Len: length, Max: c.cfg.MaxMessageLength})
		}
		c.need = length.Int()
		c.state = stateAwaitBody
		return c.setExpect(ExpectBytes, c.need, c.cfg.MessageTimeout), nil
	case stateAwaitBody:
		err := c.onMessage(in[:c.need])
		tr.Consume(c.need)
		if err != nil {
			return c.close(err)
		}
		return c.expectMessage()
	default:
		panic(fmt.Sprintf("bytes ready in state %v", c.state))
	}
}

// Flushed is called when all output has been sent after a flush was expected.
func (c *Conn) Flushed(tr Transport) (Expectation, error) {
	if c.state == stateClosed {
		return Expectation{}, ErrClosed
	}
	panicif.NotEq(c.expect.Kind, ExpectFlush)
	switch c.state {
	case stateSendHandshake:
		c.state = stateAwaitPstrLen
		return c.expectHandshakeBytes(1)
	case stateReplyHandshake:
		return c.expectMessage()
	case stateAwaitHeader, stateAwaitBody:
		// Posted messages are out. Reading resumes with its original deadline.
		c.expect = c.resume
		return c.expect, nil
	default:
		panic(fmt.Sprintf("flushed in state %v", c.state))
	}
}

// Timeout is called when the expectation's deadline passes. It always closes the connection.
func (c *Conn) Timeout(tr Transport) (Expectation, error) {
	if c.state == stateClosed {
		return Expectation{}, ErrClosed
	}
	vars.Add("timeouts", 1)
	return c.close(fmt.Errorf("%w waiting for %v while %v", ErrTimeout, c.expect.Kind, c.state))
}

// Wakeup is called after Post. Posted messages are written once the handshake is done, and the
// connection waits for them to flush before reading again.
func (c *Conn) Wakeup(tr Transport) (Expectation, error) {
	if c.state == stateClosed {
		return Expectation{}, ErrClosed
	}
	if c.state < stateReplyHandshake {
		return c.expect, nil
	}
	if !c.writePosted(tr) || c.expect.Kind == ExpectFlush {
		return c.expect, nil
	}
	c.resume = c.expect
	return c.setExpect(ExpectFlush, 0, c.cfg.MessageTimeout), nil
}

func (c *Conn) write(tr Transport, msg pp.Message) {
	c.scratch = pp.AppendMessage(c.scratch[:0], msg)
	tr.Write(c.scratch)
}

func (c *Conn) writeHandshake(tr Transport) {
	c.scratch = pp.AppendHandshake(c.scratch[:0], pp.Handshake{
		InfoHash: c.t.InfoHash,
		PeerID:   c.cfg.PeerID,
	})
	tr.Write(c.scratch)
}

func (c *Conn) writePosted(tr Transport) bool {
	c.postMu.Lock()
	msgs := c.posted
	c.posted = nil
	c.postMu.Unlock()
	for _, msg := range msgs {
		switch msg.(type) {
		case pp.Choke:
			c.amChoking = true
		case pp.Unchoke:
			c.amChoking = false
		case pp.Interested:
			c.amInterested = true
		case pp.NotInterested:
			c.amInterested = false
		}
		c.write(tr, msg)
	}
	return len(msgs) != 0
}

func (c *Conn) onHandshake(tr Transport, b []byte) (Expectation, error) {
	h, err := pp.ParseHandshake(b)
	if err != nil {
		vars.Add("bad handshakes", 1)
		return c.close(err)
	}
	if h.InfoHash != c.t.InfoHash {
		vars.Add("bad handshakes", 1)
		return c.close(&pp.HandshakeError{
			Reason: fmt.Sprintf("info hash %v doesn't match %v", h.InfoHash, c.t.InfoHash),
		})
	}
	tr.Consume(len(b))
	c.peerID = h.PeerID
	c.peerReserved = h.Reserved
	vars.Add("handshakes", 1)
	c.logger.Levelf(log.Debug, "%p: handshake from %v, reserved %v", c, c.peerID, c.peerReserved)
	if c.seed == Accept {
		c.writeHandshake(tr)
	}
	if have := c.t.Have; have != nil && have.Len() != 0 {
		c.write(tr, have.Bitfield(c.t.NumPieces))
	}
	if c.seed == Accept {
		c.state = stateReplyHandshake
		c.writePosted(tr)
		return c.setExpect(ExpectFlush, 0, c.cfg.HandshakeTimeout), nil
	}
	c.state = stateAwaitHeader
	c.writePosted(tr)
	return c.expectMessage()
}

func (c *Conn) onMessage(b []byte) error {
	msg, err := pp.DecodeBody(b)
	if err != nil {
		return err
	}
	vars.Add("messages received", 1)
	err = c.apply(msg)
	if err != nil {
		return err
	}
	if c.h == nil {
		return nil
	}
	return c.h.Message(c, msg)
}

// Updates the connection's view of the peer.
func (c *Conn) apply(msg pp.Message) error {
	first := !c.gotMessage
	c.gotMessage = true
	switch m := msg.(type) {
	case pp.Choke:
		c.peerChoking = true
	case pp.Unchoke:
		c.peerChoking = false
	case pp.Interested:
		c.peerInterested = true
	case pp.NotInterested:
		c.peerInterested = false
	case pp.Have:
		i := m.Index.Int()
		if i >= c.t.NumPieces {
			return &PieceIndexError{Index: i, NumPieces: c.t.NumPieces}
		}
		c.peerPieces.Add(i)
	case pp.Bitfield:
		if !first {
			return ErrUnexpectedBitfield
		}
		if err := m.Validate(c.t.NumPieces); err != nil {
			return err
		}
		m.Range(func(i types.PieceIndex) bool {
			c.peerPieces.Add(i)
			return true
		})
	case pp.Request, pp.Piece, pp.Cancel, pp.Port, pp.KeepAlive:
		// Nothing to track here. The handler deals with these.
	default:
		panic(msg)
	}
	return nil
}
