package tracker

import (
	"net/netip"
	"testing"

	g "github.com/anacrolix/generics"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcore/bitcore/bencode"
)

var addrComparer = cmp.Comparer(func(a, b netip.Addr) bool {
	return a == b
})

func encodeResponse(d bencode.Dict) []byte {
	return bencode.Marshal(bencode.NewDict(d))
}

func TestParseResponseCompactPeers(t *testing.T) {
	a, err := ParseResponse(encodeResponse(bencode.Dict{
		"complete":   bencode.Int(3),
		"incomplete": bencode.Int(1),
		"interval":   bencode.Int(1800),
		"peers": bencode.Bytes([]byte{
			0x7f, 0x00, 0x00, 0x01, 0x1a, 0xe1,
			0xc0, 0xa8, 0x01, 0x02, 0xc8, 0xd5,
		}),
	}))
	require.NoError(t, err)
	want := &Announcement{
		Complete:   g.Some[int32](3),
		Incomplete: g.Some[int32](1),
		Interval:   1800,
		Peers: []Peer{
			{netip.MustParseAddr("127.0.0.1"), 6881},
			{netip.MustParseAddr("192.168.1.2"), 51413},
		},
	}
	if diff := cmp.Diff(want, a, addrComparer); diff != "" {
		t.Fatal(diff)
	}
	assert.Equal(t, "127.0.0.1:6881", a.Peers[0].String())
}

func TestParseResponseBadPeerFormat(t *testing.T) {
	for _, n := range []int{1, 5, 7, 13} {
		_, err := ParseResponse(encodeResponse(bencode.Dict{
			"interval": bencode.Int(60),
			"peers":    bencode.Bytes(make([]byte, n)),
		}))
		var bpfe *BadPeerFormatError
		require.ErrorAs(t, err, &bpfe, n)
		assert.Equal(t, n, bpfe.Len)
	}
	a, err := ParseResponse(encodeResponse(bencode.Dict{
		"interval": bencode.Int(60),
		"peers":    bencode.Bytes(nil),
	}))
	require.NoError(t, err)
	assert.Empty(t, a.Peers)
}

func TestParseResponseFailureReason(t *testing.T) {
	// The failure reason wins even though mandatory fields are missing.
	_, err := ParseResponse(MarshalFailure("torrent not registered"))
	var fre *FailureReasonError
	require.ErrorAs(t, err, &fre)
	assert.Equal(t, "torrent not registered", fre.Reason)

	_, err = ParseResponse(encodeResponse(bencode.Dict{
		"failure reason": bencode.String("go away"),
		"interval":       bencode.Int(60),
		"peers":          bencode.Bytes(nil),
	}))
	require.ErrorAs(t, err, &fre)
	assert.Equal(t, "go away", fre.Reason)
}

func TestParseResponseRequiredFields(t *testing.T) {
	_, err := ParseResponse(encodeResponse(bencode.Dict{
		"peers": bencode.Bytes(nil),
	}))
	var mke *bencode.MissingKeyError
	require.ErrorAs(t, err, &mke)
	assert.Equal(t, "interval", mke.Key)

	_, err = ParseResponse(encodeResponse(bencode.Dict{
		"interval": bencode.Int(60),
	}))
	require.ErrorAs(t, err, &mke)
	assert.Equal(t, "peers", mke.Key)

	var ve *bencode.ValueError
	for _, interval := range []bencode.Value{bencode.String("60"), bencode.Int(1 << 31)} {
		_, err = ParseResponse(encodeResponse(bencode.Dict{
			"interval": interval,
			"peers":    bencode.Bytes(nil),
		}))
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "interval", ve.Key)
	}
	_, err = ParseResponse(encodeResponse(bencode.Dict{
		"interval": bencode.Int(60),
		"peers":    bencode.List(),
	}))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "peers", ve.Key)

	_, err = ParseResponse([]byte("le"))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "", ve.Key)
}

func TestParseResponseLenientOptionals(t *testing.T) {
	a, err := ParseResponse(encodeResponse(bencode.Dict{
		"complete":   bencode.String("lots"),
		"downloaded": bencode.Int(-1 << 40),
		"incomplete": bencode.Int(-2),
		"interval":   bencode.Int(60),
		"peers":      bencode.Bytes(nil),
	}))
	require.NoError(t, err)
	assert.False(t, a.Complete.Ok)
	assert.False(t, a.Downloaded.Ok)
	assert.Equal(t, g.Some[int32](-2), a.Incomplete)
}

func TestAnnouncementMarshalRoundTrip(t *testing.T) {
	a := Announcement{
		Downloaded:  g.Some[int32](10),
		Interval:    900,
		MinInterval: g.Some[int32](60),
		Warning:     g.Some("slow down"),
		Peers: []Peer{
			{netip.MustParseAddr("10.0.0.1"), 1},
			{netip.MustParseAddr("::ffff:10.0.0.2"), 2},
		},
	}
	b := a.Marshal()
	a2, err := ParseResponse(b)
	require.NoError(t, err)
	a.Peers[1].IP = a.Peers[1].IP.Unmap()
	if diff := cmp.Diff(&a, a2, addrComparer); diff != "" {
		t.Fatal(diff)
	}
	// IPv6 peers have no compact IPv4 form.
	a.Peers = append(a.Peers, Peer{netip.MustParseAddr("::1"), 3})
	a2, err = ParseResponse(a.Marshal())
	require.NoError(t, err)
	assert.Len(t, a2.Peers, 2)
}
