package bencode

import (
	"testing"

	qt "github.com/go-quicktest/qt"
)

func Fuzz(f *testing.F) {
	for _, ret := range random_encode_tests {
		f.Add([]byte(ret.expected))
	}
	for _, ret := range random_decode_tests {
		f.Add([]byte(ret.data))
	}
	f.Fuzz(func(t *testing.T, b []byte) {
		d, n, err := Decode(b)
		if err != nil {
			t.Skip()
		}
		qt.Assert(t, qt.Equals(len(d.Raw()), n))
		b0 := Marshal(d)
		d0, err := Unmarshal(b0)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.IsTrue(d0.Equal(d)))
	})
}
