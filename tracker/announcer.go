package tracker

import (
	"context"
	"time"

	"github.com/anacrolix/log"
	"golang.org/x/time/rate"
)

// Announces to one tracker repeatedly: first with the started event, then at the interval the
// tracker asks for.
type Announcer struct {
	Client *Client
	// Event is ignored. The announcer picks it.
	Request AnnounceRequest
	// Lower bound on the wait between announces, applied to the tracker's interval.
	MinInterval time.Duration
	// Wait after a failed announce.
	RetryInterval time.Duration
	// Bounds the announce rate regardless of intervals. Unlimited if nil.
	Limiter *rate.Limiter
	// Called with each successful response. It's given the request that was sent so it can update
	// the transfer counts for the next one.
	OnAnnounce func(*AnnounceRequest, *Announcement)
	Logger     log.Logger
}

func NewAnnouncer(cl *Client, req AnnounceRequest) *Announcer {
	return &Announcer{
		Client:        cl,
		Request:       req,
		MinInterval:   time.Minute,
		RetryInterval: 30 * time.Second,
		Limiter:       rate.NewLimiter(rate.Every(10*time.Second), 2),
		Logger:        cl.Logger.WithNames("announcer"),
	}
}

func (me *Announcer) interval(a *Announcement) time.Duration {
	d := time.Duration(a.Interval) * time.Second
	if a.MinInterval.Ok {
		d = max(d, time.Duration(a.MinInterval.Value)*time.Second)
	}
	return max(d, me.MinInterval)
}

// Run announces until ctx is done, and then returns its error.
func (me *Announcer) Run(ctx context.Context) error {
	req := me.Request
	req.Event = Started
	for {
		if me.Limiter != nil {
			if err := me.Limiter.Wait(ctx); err != nil {
				return err
			}
		}
		var wait time.Duration
		a, err := me.Client.Announce(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			me.Logger.Levelf(log.Warning, "announcing to %v: %v", me.Client.URL, err)
			wait = me.RetryInterval
		} else {
			me.Logger.Levelf(log.Debug, "announced %v to %v: %v peers, interval %v", req.Event, me.Client.URL, len(a.Peers), a.Interval)
			if me.OnAnnounce != nil {
				me.OnAnnounce(&req, a)
			}
			req.Event = None
			wait = me.interval(a)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
