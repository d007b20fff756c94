package typedRoaring

import (
	"testing"

	qt "github.com/go-quicktest/qt"
)

type pieceIndex int

func TestBitmap(t *testing.T) {
	var bm Bitmap[pieceIndex]
	qt.Check(t, qt.IsTrue(bm.CheckedAdd(3)))
	qt.Check(t, qt.IsFalse(bm.CheckedAdd(3)))
	bm.Add(1)
	qt.Check(t, qt.IsTrue(bm.Contains(1)))
	qt.Check(t, qt.IsFalse(bm.Contains(2)))
	qt.Check(t, qt.Equals(bm.Len(), 2))
	var got []pieceIndex
	bm.Iterate(func(x pieceIndex) bool {
		got = append(got, x)
		return true
	})
	qt.Check(t, qt.DeepEquals(got, []pieceIndex{1, 3}))
}
