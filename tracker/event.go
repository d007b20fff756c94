package tracker

import (
	"fmt"
)

type AnnounceEvent int32

// See BEP 3, "event".
const (
	// Default event, used for announces done at regular intervals. Not sent.
	None AnnounceEvent = iota
	// Local peer just completed the torrent.
	Completed
	// Local peer has just resumed this torrent.
	Started
	// Local peer is leaving the swarm.
	Stopped
)

var announceEventStrings = []string{"", "completed", "started", "stopped"}

func (me *AnnounceEvent) UnmarshalText(text []byte) error {
	for key, str := range announceEventStrings {
		if string(text) == str {
			*me = AnnounceEvent(key)
			return nil
		}
	}
	return fmt.Errorf("unknown event %q", text)
}

func (e AnnounceEvent) String() string {
	// Return a safe default in case event values are not sanitized.
	if e < 0 || int(e) >= len(announceEventStrings) {
		return ""
	}
	return announceEventStrings[e]
}
