package main

import (
	"context"
	"log"
	"sync"

	"github.com/anacrolix/tagflag"
	"github.com/davecgh/go-spew/spew"

	"github.com/bitcore/bitcore/metainfo"
	"github.com/bitcore/bitcore/tracker"
	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/version"
)

func main() {
	flags := struct {
		Port uint16
		// One of started, completed or stopped.
		Event string
		tagflag.StartPos
		Torrents []string `arity:"+"`
	}{
		Port: 6881,
	}
	tagflag.Parse(&flags)
	var event tracker.AnnounceEvent
	if flags.Event != "" {
		if err := event.UnmarshalText([]byte(flags.Event)); err != nil {
			log.Fatal(err)
		}
	}
	peerID := types.RandomPeerID(version.DefaultBep20Prefix)
	var wg sync.WaitGroup
	for _, arg := range flags.Torrents {
		mi, err := metainfo.LoadFromFile(arg)
		if err != nil {
			log.Fatal(err)
		}
		ar := tracker.AnnounceRequest{
			InfoHash: mi.InfoHash,
			PeerID:   peerID,
			Port:     flags.Port,
			Left:     mi.Info.TotalLength(),
			NumWant:  -1,
			Event:    event,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			doTracker(tracker.NewClient(mi.Announce), ar)
		}()
	}
	wg.Wait()
}

func doTracker(cl *tracker.Client, ar tracker.AnnounceRequest) {
	resp, err := cl.Announce(context.Background(), ar)
	if err != nil {
		log.Printf("error announcing to %q: %s", cl.URL, err)
		return
	}
	log.Printf("tracker response from %q: %s", cl.URL, spew.Sdump(resp))
}
