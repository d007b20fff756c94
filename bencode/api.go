package bencode

import (
	"errors"
	"io"
	"strconv"
)

//----------------------------------------------------------------------------
// Errors
//----------------------------------------------------------------------------

// Returned when the input ends before a declared length or terminator. More input may complete the
// value, so this is not a permanent failure for streaming producers.
type IncompleteError struct {
	Offset int64 // where the truncated value started
}

func (e *IncompleteError) Error() string {
	return "bencode: incomplete value at offset " + strconv.FormatInt(e.Offset, 10)
}

func (e *IncompleteError) Unwrap() error {
	return io.ErrUnexpectedEOF
}

func IsIncomplete(err error) bool {
	var ie *IncompleteError
	return errors.As(err, &ie)
}

type SyntaxError struct {
	Offset int64  // location of the error
	what   string // error description
}

func (e *SyntaxError) Error() string {
	return "bencode: syntax error (offset: " +
		strconv.FormatInt(e.Offset, 10) +
		"): " + e.what
}

// The input nests lists and dictionaries deeper than the decoder allows.
type DepthError struct {
	Offset   int64
	MaxDepth int
}

func (e *DepthError) Error() string {
	return "bencode: nesting deeper than " + strconv.Itoa(e.MaxDepth) +
		" at offset " + strconv.FormatInt(e.Offset, 10)
}

type DuplicateKeyError struct {
	Offset int64
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return "bencode: duplicate dictionary key " + strconv.Quote(e.Key) +
		" at offset " + strconv.FormatInt(e.Offset, 10)
}

// A value decoded successfully but didn't span the whole input.
type ErrUnusedTrailingBytes struct {
	NumUnusedBytes int
}

func (me ErrUnusedTrailingBytes) Error() string {
	return strconv.Itoa(me.NumUnusedBytes) + " unused trailing bytes"
}

// A typed accessor was used on a value of another variant.
type WrongTypeError struct {
	Found    Kind
	Expected Kind
}

func (e *WrongTypeError) Error() string {
	return "bencode: found " + e.Found.String() + ", expected " + e.Expected.String()
}

var ErrInvalidUTF8 = errors.New("bencode: byte string is not valid utf-8")

//----------------------------------------------------------------------------
// Stateless interface
//----------------------------------------------------------------------------

// Decodes one value from the front of b, returning the number of bytes it spans.
func Decode(b []byte) (Value, int, error) {
	var d Decoder
	return d.Decode(b)
}

// Decodes a single value that must span all of b.
func Unmarshal(b []byte) (Value, error) {
	var d Decoder
	return d.Unmarshal(b)
}

func Marshal(v Value) []byte {
	return AppendValue(nil, v)
}
