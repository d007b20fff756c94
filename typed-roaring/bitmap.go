// Package typedRoaring wraps roaring bitmaps to hold a particular integer type.
package typedRoaring

import (
	"github.com/RoaringBitmap/roaring"
)

// Values must fit in a uint32.
type BitConstraint interface {
	~int | ~uint32
}

type Bitmap[T BitConstraint] struct {
	roaring.Bitmap
}

func (me *Bitmap[T]) Contains(x T) bool {
	return me.Bitmap.Contains(uint32(x))
}

func (me *Bitmap[T]) Iterate(f func(x T) bool) {
	me.Bitmap.Iterate(func(x uint32) bool {
		return f(T(x))
	})
}

func (me *Bitmap[T]) Add(x T) {
	me.Bitmap.Add(uint32(x))
}

func (me *Bitmap[T]) CheckedAdd(x T) bool {
	return me.Bitmap.CheckedAdd(uint32(x))
}

func (me *Bitmap[T]) Len() int {
	return int(me.Bitmap.GetCardinality())
}
