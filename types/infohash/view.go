package infohash

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// A hash borrowed from a larger buffer, such as the pieces field of a metainfo. Always Size bytes
// when obtained from NewView.
type View []byte

type LengthError struct {
	Len int
}

func (e *LengthError) Error() string {
	return "infohash: digest has length " + strconv.Itoa(e.Len) + ", expected " + strconv.Itoa(Size)
}

// NewView wraps an already computed digest without copying it.
func NewView(b []byte) (View, error) {
	if len(b) != Size {
		return nil, &LengthError{len(b)}
	}
	return View(b[:Size:Size]), nil
}

func (v View) HexString() string {
	return hex.EncodeToString(v)
}

func (v View) String() string {
	return v.HexString()
}

func (v View) QueryEscaped() string {
	return queryEscape(v)
}

// Owned copies the digest out of the borrowed buffer.
func (v View) Owned() (ret T) {
	copy(ret[:], v)
	return
}

func (v View) Equal(t T) bool {
	return bytes.Equal(v, t[:])
}
