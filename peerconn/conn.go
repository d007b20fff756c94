// Package peerconn implements the per-connection side of the BitTorrent peer wire protocol as a
// non-blocking state machine. A reactor owns the socket and calls into a Conn one callback at a
// time; each callback says what the connection waits for next, or that it's closed.
package peerconn

import (
	"expvar"
	"fmt"

	"github.com/anacrolix/chansync"
	"github.com/anacrolix/log"
	"github.com/anacrolix/missinggo/v2/panicif"
	"github.com/anacrolix/sync"

	pp "github.com/bitcore/bitcore/peer_protocol"
	typedRoaring "github.com/bitcore/bitcore/typed-roaring"
	"github.com/bitcore/bitcore/types"
)

var vars = expvar.NewMap("peerconn")

// How a connection came to be, which decides who sends the first handshake.
type Seed int

const (
	// The peer dialed us. We wait for their handshake and reply to it.
	Accept Seed = iota
	// We dialed the peer and send our handshake first.
	Connect
)

type state int

const (
	stateNew state = iota
	stateSendHandshake
	stateAwaitPstrLen
	stateAwaitHandshake
	stateReplyHandshake
	stateAwaitHeader
	stateAwaitBody
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "new"
	case stateSendHandshake:
		return "sending handshake"
	case stateAwaitPstrLen, stateAwaitHandshake:
		return "awaiting handshake"
	case stateReplyHandshake:
		return "replying to handshake"
	case stateAwaitHeader:
		return "awaiting message"
	case stateAwaitBody:
		return "awaiting message body"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Receives each message from the peer after the connection has applied it to its own state.
// Messages borrow the connection's input and are only valid during the call. Returning an error
// closes the connection.
type Handler interface {
	Message(c *Conn, msg pp.Message) error
}

type HandlerFunc func(c *Conn, msg pp.Message) error

func (f HandlerFunc) Message(c *Conn, msg pp.Message) error {
	return f(c, msg)
}

// Conn is the state of one peer connection. Apart from Post and Wakeups, its methods must only be
// called by the goroutine driving it.
type Conn struct {
	seed   Seed
	t      *Torrent
	cfg    *Config
	h      Handler
	logger log.Logger

	state  state
	expect Expectation
	// The expectation a flush for posted messages interrupted.
	resume Expectation
	// Length of the handshake or message body being read.
	need     int
	closeErr error
	closed   chansync.SetOnce
	scratch  []byte

	peerID       types.PeerID
	peerReserved pp.PeerExtensionBits
	// Everyone starts out choking and not interested.
	amChoking      bool
	amInterested   bool
	peerChoking    bool
	peerInterested bool
	peerPieces     typedRoaring.Bitmap[types.PieceIndex]
	gotMessage     bool

	postMu sync.Mutex
	posted []pp.Message
	wake   chan struct{}
}

// New creates a connection for the torrent. cfg defaults to NewDefaultConfig, and a nil handler
// ignores messages.
func New(seed Seed, t *Torrent, cfg *Config, h Handler) *Conn {
	panicif.Nil(t)
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Conn{
		seed:        seed,
		t:           t,
		cfg:         cfg,
		h:           h,
		logger:      cfg.Logger,
		amChoking:   true,
		peerChoking: true,
		wake:        make(chan struct{}, 1),
	}
}

func (c *Conn) String() string {
	return fmt.Sprintf("peerconn %p (%v)", c, c.state)
}

func (c *Conn) PeerID() types.PeerID {
	return c.peerID
}

// The reserved bytes from the peer's handshake.
func (c *Conn) PeerExtensionBits() pp.PeerExtensionBits {
	return c.peerReserved
}

func (c *Conn) AmChoking() bool {
	return c.amChoking
}

func (c *Conn) AmInterested() bool {
	return c.amInterested
}

func (c *Conn) PeerChoking() bool {
	return c.peerChoking
}

func (c *Conn) PeerInterested() bool {
	return c.peerInterested
}

func (c *Conn) PeerHasPiece(piece types.PieceIndex) bool {
	return c.peerPieces.Contains(piece)
}

func (c *Conn) PeerNumPieces() int {
	return c.peerPieces.Len()
}

func (c *Conn) Torrent() *Torrent {
	return c.t
}

// Queues messages to send to the peer, and signals Wakeups. Choke and interest messages update our
// side's flags when they're written. Messages posted before the handshake completes are sent after
// it. Returns false if the connection is closed. Safe to call from any goroutine.
func (c *Conn) Post(msgs ...pp.Message) bool {
	if c.closed.IsSet() {
		return false
	}
	c.postMu.Lock()
	c.posted = append(c.posted, msgs...)
	c.postMu.Unlock()
	vars.Add("messages posted", int64(len(msgs)))
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// Receives after Post. The reactor should then call Wakeup.
func (c *Conn) Wakeups() <-chan struct{} {
	return c.wake
}

// Closes the connection for reason unless it's already closed. Returns the reason the connection
// closed.
func (c *Conn) Close(reason error) error {
	if c.closed.Set() {
		c.state = stateClosed
		c.closeErr = reason
		vars.Add("closed", 1)
		c.logger.Levelf(log.Debug, "closing %p to %v: %v", c, c.peerID, reason)
	}
	return c.closeErr
}

// The reason the connection closed, or nil.
func (c *Conn) Err() error {
	return c.closeErr
}

func (c *Conn) close(reason error) (Expectation, error) {
	return Expectation{}, c.Close(reason)
}
