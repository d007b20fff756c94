package tracker

import (
	"net/url"
	"strconv"

	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/types/infohash"
)

const DefaultNumWant = 7

type AnnounceRequest struct {
	InfoHash   infohash.T
	PeerID     types.PeerID
	Port       uint16
	Uploaded   int64
	Downloaded int64
	Left       int64
	// How many peer addresses are desired.
	NumWant int32
	Event   AnnounceEvent
}

// Query returns the announce parameters in the order trackers commonly log them. Binary values are
// escaped so that spaces become %20 rather than +, which some trackers reject.
func (ar *AnnounceRequest) Query() string {
	q := "info_hash=" + ar.InfoHash.QueryEscaped() +
		"&peer_id=" + infohash.View(ar.PeerID[:]).QueryEscaped() +
		// AFAICT, port is mandatory, and there's no implied port key.
		"&port=" + strconv.FormatUint(uint64(ar.Port), 10) +
		"&uploaded=" + strconv.FormatInt(ar.Uploaded, 10) +
		"&downloaded=" + strconv.FormatInt(ar.Downloaded, 10) +
		"&left=" + strconv.FormatInt(ar.Left, 10) +
		"&numwant=" + strconv.FormatInt(int64(ar.NumWant), 10)
	if ar.Event != None {
		q += "&event=" + ar.Event.String()
	}
	return q
}

// RequestURI returns the path and query to request from the tracker at announce. Query parameters
// already present in the announce URL are kept after the announce parameters.
func (ar *AnnounceRequest) RequestURI(announce *url.URL) string {
	return announce.EscapedPath() + "?" + ar.queryWith(announce.RawQuery)
}

func (ar *AnnounceRequest) queryWith(rawQuery string) string {
	q := ar.Query()
	if rawQuery != "" {
		q += "&" + rawQuery
	}
	return q
}
