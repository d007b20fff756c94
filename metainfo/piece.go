package metainfo

import (
	"fmt"

	"github.com/bitcore/bitcore/types/infohash"
)

type Piece struct {
	Info *Info
	i    PieceIndex
}

func (p Piece) String() string {
	return fmt.Sprintf("metainfo.Piece(Info.Name=%q, i=%v)", p.Info.Name(), p.i)
}

type PieceIndex = int

// The number of bytes covered by the piece. The last piece may be short. Returns 0 if the index is
// out of range or the info's lengths are inconsistent.
func (p Piece) Length() int64 {
	i := p.i
	lastPiece := p.Info.NumPieces() - 1
	switch {
	case 0 <= i && i < lastPiece:
		return p.Info.PieceLength
	case lastPiece >= 0 && i == lastPiece:
		length := p.Info.TotalLength() - int64(i)*p.Info.PieceLength
		if length <= 0 || length > p.Info.PieceLength {
			return 0
		}
		return length
	default:
		return 0
	}
}

func (p Piece) Offset() int64 {
	return int64(p.i) * p.Info.PieceLength
}

func (p Piece) Hash() infohash.View {
	return p.Info.Pieces.Hash(p.i)
}

func (p Piece) Index() int {
	return p.i
}
