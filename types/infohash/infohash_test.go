package infohash

import (
	"testing"

	qt "github.com/go-quicktest/qt"
)

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("hello, world\n"))
	qt.Check(t, qt.Equals(h.HexString(), "cd50d19784897085a8d0e3e413f8612b097c03f1"))
	qt.Check(t, qt.Equals(h, FromHexString(h.HexString())))
	qt.Check(t, qt.Equals(h.String(), h.HexString()))
}

func TestFromHexStringBadLength(t *testing.T) {
	var h T
	qt.Check(t, qt.IsNotNil(h.FromHexString("abcd")))
	qt.Check(t, qt.IsNotNil(h.UnmarshalText([]byte("zz"))))
}

// Checks that hash bytes that correspond to spaces are escaped with %20 instead of +. Some trackers
// don't decode + in the info_hash.
func TestQueryEscapedSpaces(t *testing.T) {
	ih := T{
		0x2b, 0x76, 0xa, 0xa1, 0x78, 0x93, 0x20, 0x30, 0xc8, 0x47,
		0xdc, 0xdf, 0x8e, 0xae, 0xbf, 0x56, 0xa, 0x1b, 0xd1, 0x6c,
	}
	const expected = "%2Bv%0A%A1x%93%200%C8G%DC%DF%8E%AE%BFV%0A%1B%D1l"
	qt.Check(t, qt.Equals(ih.QueryEscaped(), expected))
	qt.Check(t, qt.Equals(ih.View().QueryEscaped(), expected))
}

func TestView(t *testing.T) {
	buf := make([]byte, 30)
	for i := range buf {
		buf[i] = byte(i)
	}
	_, err := NewView(buf[:19])
	var le *LengthError
	qt.Assert(t, qt.ErrorAs(err, &le))
	qt.Check(t, qt.Equals(le.Len, 19))

	v, err := NewView(buf[5:25])
	qt.Assert(t, qt.IsNil(err))
	owned := v.Owned()
	qt.Check(t, qt.IsTrue(v.Equal(owned)))
	qt.Check(t, qt.Equals(v.HexString(), owned.HexString()))
	// The view borrows, the owned copy doesn't.
	buf[5] = 0xff
	qt.Check(t, qt.Equals(v[0], byte(0xff)))
	qt.Check(t, qt.Equals(owned[0], byte(5)))
	qt.Check(t, qt.IsFalse(v.Equal(owned)))
}
