// Connects to a single peer for a torrent and logs the messages it sends.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/anacrolix/log"
	"github.com/anacrolix/tagflag"

	"github.com/bitcore/bitcore/metainfo"
	"github.com/bitcore/bitcore/peerconn"
	pp "github.com/bitcore/bitcore/peer_protocol"
)

func main() {
	var flags struct {
		Interested  bool
		DialTimeout time.Duration
		tagflag.StartPos
		Torrent string
		Addr    string
	}
	flags.DialTimeout = 10 * time.Second
	tagflag.Parse(&flags)
	if err := mainErr(flags.Torrent, flags.Addr, flags.DialTimeout, flags.Interested); err != nil {
		log.Levelf(log.Critical, "%v", err)
		os.Exit(1)
	}
}

func mainErr(torrentPath, addr string, dialTimeout time.Duration, interested bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	mi, err := metainfo.LoadFromFile(torrentPath)
	if err != nil {
		return err
	}
	cfg := peerconn.ConfigFromEnv()
	logger := cfg.Logger
	nc, err := (&net.Dialer{Timeout: dialTimeout}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	logger.Levelf(log.Info, "connected to %v", nc.RemoteAddr())
	c := peerconn.New(peerconn.Connect, peerconn.NewTorrent(mi, nil), cfg, peerconn.HandlerFunc(
		func(c *peerconn.Conn, msg pp.Message) error {
			logger.Levelf(log.Info, "%v: %v", c.PeerID(), msg)
			return nil
		}))
	if interested {
		c.Post(pp.Interested{})
	}
	err = peerconn.Run(ctx, nc, c)
	logger.Levelf(log.Info, "peer has %v/%v pieces", c.PeerNumPieces(), mi.Info.NumPieces())
	return err
}
