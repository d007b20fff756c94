package bencode

import "unsafe"

// The returned string shares memory with b.
func bytesAsString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
