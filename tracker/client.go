package tracker

import (
	"context"
	"expvar"
	"io"
	"net/http"
	"net/url"

	"github.com/anacrolix/log"
	"github.com/anacrolix/missinggo/httptoo"
	"github.com/pkg/errors"

	"github.com/bitcore/bitcore/version"
)

var vars = expvar.NewMap("tracker")

// Announces to a single HTTP tracker.
type Client struct {
	URL        *url.URL
	HTTPClient *http.Client
	// Defaults to version.DefaultHttpUserAgent.
	UserAgent string
	Logger    log.Logger
}

func NewClient(announce *url.URL) *Client {
	return &Client{
		URL:        announce,
		HTTPClient: http.DefaultClient,
		Logger:     log.Default.WithNames("tracker"),
	}
}

func (cl *Client) announceURL(ar *AnnounceRequest) *url.URL {
	u := httptoo.CopyURL(cl.URL)
	u.RawQuery = ar.queryWith(u.RawQuery)
	return u
}

// Announce performs a single announce. The response body is read completely before it's parsed.
func (cl *Client) Announce(ctx context.Context, ar AnnounceRequest) (*Announcement, error) {
	u := cl.announceURL(&ar)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	userAgent := cl.UserAgent
	if userAgent == "" {
		userAgent = version.DefaultHttpUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	hc := cl.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	vars.Add("http announces", 1)
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "doing announce request")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading announce response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("response from tracker: %s: %q", resp.Status, body)
	}
	ret, err := ParseResponse(body)
	if err != nil {
		var fre *FailureReasonError
		if errors.As(err, &fre) {
			vars.Add("http announce failure reasons", 1)
			return nil, err
		}
		return nil, errors.Wrapf(err, "decoding %q", body)
	}
	vars.Add("successful http announces", 1)
	if len(ret.Peers) != 0 {
		vars.Add("http responses with nonempty peers key", 1)
	}
	if ret.Warning.Ok {
		cl.Logger.Levelf(log.Warning, "tracker %v warned: %v", cl.URL, ret.Warning.Value)
	}
	return ret, nil
}
