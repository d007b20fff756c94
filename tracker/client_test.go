package tracker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/anacrolix/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcore/bitcore/tracker"
	"github.com/bitcore/bitcore/tracker/server"
	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/types/infohash"
)

func newTestClient(t *testing.T, h http.Handler) *tracker.Client {
	s := httptest.NewServer(h)
	t.Cleanup(s.Close)
	u, err := url.Parse(s.URL + "/announce")
	require.NoError(t, err)
	return tracker.NewClient(u)
}

func request(id string) tracker.AnnounceRequest {
	return tracker.AnnounceRequest{
		InfoHash: infohash.HashBytes([]byte("greeting")),
		PeerID:   types.RandomPeerID(id),
		Left:     13,
		NumWant:  tracker.DefaultNumWant,
		Event:    tracker.Started,
	}
}

func TestClientAnnounce(t *testing.T) {
	cl := newTestClient(t, &server.Handler{
		Interval: 1800,
		Logger:   log.Default,
	})
	ctx := context.Background()
	a := request("-AA0000-")
	a.Port = 1
	resp, err := cl.Announce(ctx, a)
	require.NoError(t, err)
	assert.EqualValues(t, 1800, resp.Interval)
	assert.Empty(t, resp.Peers)
	b := request("-BB0000-")
	b.Port = 2
	b.Left = 0
	resp, err = cl.Announce(ctx, b)
	require.NoError(t, err)
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:1"), resp.Peers[0].AddrPort())
	assert.EqualValues(t, 1, resp.Complete.Value)
	assert.EqualValues(t, 1, resp.Incomplete.Value)
	// A stopped peer leaves the swarm.
	a.Event = tracker.Stopped
	_, err = cl.Announce(ctx, a)
	require.NoError(t, err)
	b.Event = tracker.None
	resp, err = cl.Announce(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, resp.Peers)
}

func TestClientFailureReason(t *testing.T) {
	cl := newTestClient(t, &server.Handler{
		Allow:  func(infohash.T) bool { return false },
		Logger: log.Default,
	})
	_, err := cl.Announce(context.Background(), request("-AA0000-"))
	var fre *tracker.FailureReasonError
	require.ErrorAs(t, err, &fre)
	assert.Equal(t, "unregistered torrent", fre.Reason)
}

func TestClientRequest(t *testing.T) {
	var got *http.Request
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write((&tracker.Announcement{Interval: 60}).Marshal())
	}))
	cl.URL.RawQuery = "passkey=abc"
	cl.UserAgent = "test-agent"
	ar := request("-AA0000-")
	_, err := cl.Announce(context.Background(), ar)
	require.NoError(t, err)
	assert.Equal(t, "/announce", got.URL.Path)
	assert.Equal(t, ar.Query()+"&passkey=abc", got.URL.RawQuery)
	assert.Equal(t, "test-agent", got.UserAgent())
}

func TestClientHTTPError(t *testing.T) {
	cl := newTestClient(t, http.NotFoundHandler())
	_, err := cl.Announce(context.Background(), request("-AA0000-"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	cl = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("d8:intervali60e5:peers"))
	}))
	_, err = cl.Announce(context.Background(), request("-AA0000-"))
	require.Error(t, err)
}

func TestAnnouncer(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	cl := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		events = append(events, r.URL.Query().Get("event"))
		n := len(events)
		mu.Unlock()
		if n == 2 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write((&tracker.Announcement{Interval: 0}).Marshal())
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	announces := 0
	a := tracker.NewAnnouncer(cl, request("-AA0000-"))
	a.MinInterval = time.Millisecond
	a.RetryInterval = time.Millisecond
	a.Limiter = nil
	a.OnAnnounce = func(req *tracker.AnnounceRequest, _ *tracker.Announcement) {
		announces++
		req.Uploaded += 1
		if announces == 3 {
			cancel()
		}
	}
	err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, announces)
	mu.Lock()
	defer mu.Unlock()
	// The second announce failed, so it's retried with the same event.
	assert.Equal(t, []string{"started", "", "", ""}, events)
}
