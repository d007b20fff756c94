package tracker

import (
	"errors"
	"math"
	"strconv"

	g "github.com/anacrolix/generics"

	"github.com/bitcore/bitcore/bencode"
)

const (
	keyFailureReason  = "failure reason"
	keyWarningMessage = "warning message"
	keyComplete       = "complete"
	keyDownloaded     = "downloaded"
	keyIncomplete     = "incomplete"
	keyInterval       = "interval"
	keyMinInterval    = "min interval"
	keyPeers          = "peers"
)

// The tracker refused the announce and said why.
type FailureReasonError struct {
	Reason string
}

func (e *FailureReasonError) Error() string {
	return "tracker gave failure reason: " + strconv.Quote(e.Reason)
}

// The compact peers string wasn't a whole number of peers.
type BadPeerFormatError struct {
	Len int
}

func (e *BadPeerFormatError) Error() string {
	return "tracker: compact peers length " + strconv.Itoa(e.Len) + " is not a multiple of " + strconv.Itoa(compactPeerLen)
}

var ErrIntRange = errors.New("tracker: integer out of int32 range")

// A tracker's response to an announce.
type Announcement struct {
	// Seeders.
	Complete   g.Option[int32]
	Downloaded g.Option[int32]
	// Leechers.
	Incomplete g.Option[int32]
	// Seconds the local peer should wait before the next regular announce.
	Interval    int32
	MinInterval g.Option[int32]
	Warning     g.Option[string]
	Peers       []Peer
}

func int32Value(v bencode.Value) (int32, error) {
	i, err := v.AsInt()
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, ErrIntRange
	}
	return int32(i), nil
}

// Optional fields that are present with the wrong type or range are treated as absent.
func optionalInt32(d bencode.Dict, key string) (ret g.Option[int32]) {
	v, ok := d.Lookup(key)
	if !ok {
		return
	}
	i, err := int32Value(v)
	if err != nil {
		return
	}
	return g.Some(i)
}

// Parses an announce response body. A failure reason from the tracker takes precedence over every
// other field.
func ParseResponse(b []byte) (*Announcement, error) {
	v, err := bencode.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	d, err := v.TakeDict()
	if err != nil {
		return nil, &bencode.ValueError{Err: err}
	}
	if fr, ok := d.Lookup(keyFailureReason); ok {
		reason, err := fr.AsBytes()
		if err != nil {
			return nil, &bencode.ValueError{Key: keyFailureReason, Err: err}
		}
		return nil, &FailureReasonError{string(reason)}
	}
	var ret Announcement
	ret.Complete = optionalInt32(d, keyComplete)
	ret.Downloaded = optionalInt32(d, keyDownloaded)
	ret.Incomplete = optionalInt32(d, keyIncomplete)
	ret.MinInterval = optionalInt32(d, keyMinInterval)
	if w, err := d.Text(keyWarningMessage); err == nil {
		ret.Warning = g.Some(w)
	}
	iv, ok := d.Lookup(keyInterval)
	if !ok {
		return nil, &bencode.MissingKeyError{Key: keyInterval}
	}
	ret.Interval, err = int32Value(iv)
	if err != nil {
		return nil, &bencode.ValueError{Key: keyInterval, Err: err}
	}
	peers, err := d.Bytes(keyPeers)
	if err != nil {
		return nil, err
	}
	ret.Peers, err = unmarshalCompactPeers(peers)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// Encodes the announcement as a tracker response with compact peers.
func (a *Announcement) Marshal() []byte {
	d := bencode.Dict{
		keyInterval: bencode.Int(int64(a.Interval)),
		keyPeers:    bencode.Bytes(appendCompactPeers(nil, a.Peers)),
	}
	for key, opt := range map[string]g.Option[int32]{
		keyComplete:    a.Complete,
		keyDownloaded:  a.Downloaded,
		keyIncomplete:  a.Incomplete,
		keyMinInterval: a.MinInterval,
	} {
		if opt.Ok {
			d[key] = bencode.Int(int64(opt.Value))
		}
	}
	if a.Warning.Ok {
		d[keyWarningMessage] = bencode.String(a.Warning.Value)
	}
	return bencode.Marshal(bencode.NewDict(d))
}

// Encodes a response refusing an announce.
func MarshalFailure(reason string) []byte {
	return bencode.Marshal(bencode.NewDict(bencode.Dict{
		keyFailureReason: bencode.String(reason),
	}))
}
