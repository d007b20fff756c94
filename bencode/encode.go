package bencode

import (
	"slices"
	"strconv"
)

// Appends the canonical encoding of v to b. Dictionary keys are written in byte order. Invalid
// (zero) values encode as nothing.
func AppendValue(b []byte, v Value) []byte {
	switch v.kind {
	case KindBytes:
		b = strconv.AppendInt(b, int64(len(v.b)), 10)
		b = append(b, ':')
		b = append(b, v.b...)
	case KindInt:
		b = append(b, 'i')
		b = strconv.AppendInt(b, v.i, 10)
		b = append(b, 'e')
	case KindList:
		b = append(b, 'l')
		for _, e := range v.list {
			b = AppendValue(b, e)
		}
		b = append(b, 'e')
	case KindDict:
		b = append(b, 'd')
		keys := make([]string, 0, len(v.dict))
		for k := range v.dict {
			keys = append(keys, k)
		}
		// Go string comparison is bytewise, which is the canonical key order.
		slices.Sort(keys)
		for _, k := range keys {
			b = strconv.AppendInt(b, int64(len(k)), 10)
			b = append(b, ':')
			b = append(b, k...)
			b = AppendValue(b, v.dict[k])
		}
		b = append(b, 'e')
	}
	return b
}
