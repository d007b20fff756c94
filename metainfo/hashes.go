package metainfo

import (
	"iter"
	"strconv"

	"github.com/bitcore/bitcore/types/infohash"
)

// The pieces field wasn't a whole number of hashes.
type HashesLengthError struct {
	Len int
}

func (e *HashesLengthError) Error() string {
	return "metainfo: pieces length " + strconv.Itoa(e.Len) + " is not a multiple of " + strconv.Itoa(HashSize)
}

// The concatenated piece hashes of an info dict. It borrows the bytes it was created from.
type Hashes struct {
	b []byte
}

func NewHashes(b []byte) (Hashes, error) {
	if len(b)%HashSize != 0 {
		return Hashes{}, &HashesLengthError{len(b)}
	}
	return Hashes{b}, nil
}

func (hs Hashes) Len() int {
	return len(hs.b) / HashSize
}

func (hs Hashes) Bytes() []byte {
	return hs.b
}

// Returns the hash of piece i without copying it. Panics if i is out of range.
func (hs Hashes) Hash(i int) infohash.View {
	off := i * HashSize
	return infohash.View(hs.b[off : off+HashSize : off+HashSize])
}

// All yields each piece index and its hash in order. The sequence can be iterated any number of
// times.
func (hs Hashes) All() iter.Seq2[int, infohash.View] {
	return func(yield func(int, infohash.View) bool) {
		for i := range hs.Len() {
			if !yield(i, hs.Hash(i)) {
				return
			}
		}
	}
}
