package peerconn

import (
	"github.com/bitcore/bitcore/metainfo"
	"github.com/bitcore/bitcore/types/infohash"
)

// What connections need to know about a torrent. It's shared by all of them and never modified.
type Torrent struct {
	InfoHash  infohash.T
	NumPieces int
	Have      *Availability
}

func NewTorrent(mi *metainfo.MetaInfo, have *Availability) *Torrent {
	if have == nil {
		have = new(Availability)
	}
	return &Torrent{
		InfoHash:  mi.InfoHash,
		NumPieces: mi.Info.NumPieces(),
		Have:      have,
	}
}
