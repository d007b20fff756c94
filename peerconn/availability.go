package peerconn

import (
	"github.com/anacrolix/sync"

	pp "github.com/bitcore/bitcore/peer_protocol"
	typedRoaring "github.com/bitcore/bitcore/typed-roaring"
	"github.com/bitcore/bitcore/types"
)

// The pieces we have, shared by every connection of a torrent. Connections only read it. Whatever
// verifies pieces calls Set.
type Availability struct {
	mu     sync.RWMutex
	pieces typedRoaring.Bitmap[types.PieceIndex]
}

// Returns false if the piece was already set.
func (me *Availability) Set(i types.PieceIndex) bool {
	me.mu.Lock()
	defer me.mu.Unlock()
	return me.pieces.CheckedAdd(i)
}

func (me *Availability) Has(i types.PieceIndex) bool {
	me.mu.RLock()
	defer me.mu.RUnlock()
	return me.pieces.Contains(i)
}

func (me *Availability) Len() int {
	me.mu.RLock()
	defer me.mu.RUnlock()
	return me.pieces.Len()
}

func (me *Availability) Bitfield(numPieces int) pp.Bitfield {
	me.mu.RLock()
	defer me.mu.RUnlock()
	bf := make(pp.Bitfield, pp.BitfieldLen(numPieces))
	me.pieces.Iterate(func(i types.PieceIndex) bool {
		if i >= numPieces {
			return false
		}
		bf[i/8] |= 1 << (7 - i%8)
		return true
	})
	return bf
}
