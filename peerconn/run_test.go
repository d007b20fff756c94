package peerconn

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	qt "github.com/go-quicktest/qt"

	pp "github.com/bitcore/bitcore/peer_protocol"
	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/types/infohash"
)

func startRun(ctx context.Context, t *testing.T, c *Conn) (peer net.Conn, done <-chan error) {
	ours, peer := net.Pipe()
	ch := make(chan error, 1)
	go func() {
		ch <- Run(ctx, ours, c)
	}()
	t.Cleanup(func() { peer.Close() })
	return peer, ch
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run didn't return")
		panic("unreachable")
	}
}

func testTorrent() *Torrent {
	return &Torrent{
		InfoHash:  infohash.HashBytes([]byte("run test")),
		NumPieces: 4,
		Have:      new(Availability),
	}
}

func TestRunExchange(t *testing.T) {
	tor := testTorrent()
	cfg := NewDefaultConfig()
	msgs := make(chan pp.Message, 1)
	c := New(Accept, tor, cfg, HandlerFunc(func(c *Conn, msg pp.Message) error {
		msgs <- msg
		return nil
	}))
	peer, done := startRun(context.Background(), t, c)
	dec := pp.Decoder{
		R:         bufio.NewReader(peer),
		MaxLength: 1 << 10,
	}
	theirs := pp.Handshake{InfoHash: tor.InfoHash, PeerID: types.RandomPeerID("-XX0000-")}
	_, err := peer.Write(pp.AppendHandshake(nil, theirs))
	qt.Assert(t, qt.IsNil(err))
	h, err := dec.ReadHandshake()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(h.InfoHash, tor.InfoHash))
	qt.Check(t, qt.Equals(h.PeerID, cfg.PeerID))

	_, err = peer.Write(pp.Marshal(pp.Have{Index: 1}))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[pp.Message](<-msgs, pp.Have{Index: 1}))

	// Posting interrupts the blocked read.
	qt.Assert(t, qt.IsTrue(c.Post(pp.Unchoke{})))
	msg, err := dec.Decode()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[pp.Message](msg, pp.Unchoke{}))

	// And reading carries on afterwards.
	_, err = peer.Write(pp.Marshal(pp.Interested{}))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[pp.Message](<-msgs, pp.Interested{}))

	peer.Close()
	qt.Check(t, qt.ErrorIs(waitRun(t, done), ErrPeerClosed))
	qt.Check(t, qt.IsFalse(c.AmChoking()))
	qt.Check(t, qt.IsTrue(c.PeerInterested()))
	qt.Check(t, qt.IsTrue(c.PeerHasPiece(1)))
	qt.Check(t, qt.IsFalse(c.Post(pp.Choke{})))
}

func TestRunHandshakeTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.HandshakeTimeout = 50 * time.Millisecond
	c := New(Accept, testTorrent(), cfg, nil)
	_, done := startRun(context.Background(), t, c)
	err := waitRun(t, done)
	qt.Check(t, qt.ErrorIs(err, ErrTimeout))
	qt.Check(t, qt.ErrorIs(c.Err(), ErrTimeout))
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tor := testTorrent()
	c := New(Connect, tor, nil, nil)
	peer, done := startRun(ctx, t, c)
	h, err := (&pp.Decoder{R: bufio.NewReader(peer)}).ReadHandshake()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(h.InfoHash, tor.InfoHash))
	cancel()
	qt.Check(t, qt.ErrorIs(waitRun(t, done), context.Canceled))
}

func TestRunPeerHangsUpDuringHandshake(t *testing.T) {
	c := New(Accept, testTorrent(), nil, nil)
	peer, done := startRun(context.Background(), t, c)
	_, err := peer.Write(pp.AppendHandshake(nil, pp.Handshake{})[:10])
	qt.Assert(t, qt.IsNil(err))
	peer.Close()
	qt.Check(t, qt.ErrorIs(waitRun(t, done), ErrPeerClosed))
}
