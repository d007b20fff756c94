// Package server is a minimal in-memory HTTP tracker. It answers announces with the compact peers
// of other announcers for the same info hash.
package server

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/log"
	"github.com/anacrolix/sync"

	"github.com/bitcore/bitcore/tracker"
	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/types/infohash"
)

type swarmPeer struct {
	addr netip.AddrPort
	left int64
}

type Handler struct {
	// Returned to announcers. Defaults to 5 minutes.
	Interval int32
	// Limits the peers in a response. Defaults to tracker.DefaultNumWant if the request doesn't
	// say.
	MaxPeers int
	// Torrents not allowed get a failure reason. All are allowed if nil.
	Allow func(infohash.T) bool
	// Called to derive an announcer's IP if non-nil. If not specified, the Request.RemoteAddr is
	// used. Necessary for instances running behind reverse proxies for example.
	RequestHost func(r *http.Request) (netip.Addr, error)
	Logger      log.Logger

	mu     sync.Mutex
	swarms map[infohash.T]map[types.PeerID]swarmPeer
}

func unmarshalQueryKeyToArray(w http.ResponseWriter, key string, query url.Values) (ret [20]byte, ok bool) {
	str := query.Get(key)
	if len(str) != len(ret) {
		http.Error(w, fmt.Sprintf("%v has wrong length", key), http.StatusBadRequest)
		return
	}
	copy(ret[:], str)
	ok = true
	return
}

func (me *Handler) requestHostAddr(r *http.Request) (_ netip.Addr, err error) {
	if me.RequestHost != nil {
		return me.RequestHost(r)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return
	}
	return netip.ParseAddr(host)
}

func (me *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vs := r.URL.Query()
	var event tracker.AnnounceEvent
	err := event.UnmarshalText([]byte(vs.Get("event")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	infoHash, ok := unmarshalQueryKeyToArray(w, "info_hash", vs)
	if !ok {
		return
	}
	peerId, ok := unmarshalQueryKeyToArray(w, "peer_id", vs)
	if !ok {
		return
	}
	me.Logger.Levelf(log.Debug, "announce from %v: event=%q, info_hash=%x", r.RemoteAddr, event, infoHash)
	if me.Allow != nil && !me.Allow(infoHash) {
		w.Write(tracker.MarshalFailure("unregistered torrent"))
		return
	}
	addr, err := me.requestHostAddr(r)
	if err != nil {
		me.Logger.Levelf(log.Warning, "error getting requester IP: %v", err)
		http.Error(w, "error determining your IP", http.StatusBadGateway)
		return
	}
	port, err := strconv.ParseUint(vs.Get("port"), 10, 16)
	if err != nil {
		http.Error(w, "bad port", http.StatusBadRequest)
		return
	}
	left, err := strconv.ParseInt(vs.Get("left"), 10, 64)
	if err != nil {
		left = -1
	}
	numWant := g.None[int]()
	if n, err := strconv.Atoi(vs.Get("numwant")); err == nil && n >= 0 {
		numWant = g.Some(n)
	}
	resp := me.announce(
		infoHash,
		peerId,
		swarmPeer{netip.AddrPortFrom(addr, uint16(port)), left},
		event,
		numWant,
	)
	_, err = w.Write(resp.Marshal())
	if err != nil {
		me.Logger.Levelf(log.Debug, "error writing response body: %v", err)
	}
}

func (me *Handler) maxPeers(numWant g.Option[int]) int {
	n := numWant.UnwrapOr(tracker.DefaultNumWant)
	if me.MaxPeers > 0 {
		n = min(n, me.MaxPeers)
	}
	return n
}

func (me *Handler) announce(
	ih infohash.T,
	id types.PeerID,
	sp swarmPeer,
	event tracker.AnnounceEvent,
	numWant g.Option[int],
) (ret tracker.Announcement) {
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.swarms == nil {
		me.swarms = make(map[infohash.T]map[types.PeerID]swarmPeer)
	}
	swarm := me.swarms[ih]
	if swarm == nil {
		swarm = make(map[types.PeerID]swarmPeer)
		me.swarms[ih] = swarm
	}
	if event == tracker.Stopped {
		delete(swarm, id)
	} else {
		swarm[id] = sp
	}
	ret.Interval = me.Interval
	if ret.Interval == 0 {
		ret.Interval = 5 * 60
	}
	var complete, incomplete int32
	maxPeers := me.maxPeers(numWant)
	for otherId, other := range swarm {
		if other.left == 0 {
			complete++
		} else {
			incomplete++
		}
		if otherId == id || len(ret.Peers) >= maxPeers {
			continue
		}
		ret.Peers = append(ret.Peers, tracker.Peer{
			IP:   other.addr.Addr(),
			Port: other.addr.Port(),
		})
	}
	ret.Complete = g.Some(complete)
	ret.Incomplete = g.Some(incomplete)
	return
}
