package peer_protocol

import (
	"encoding/binary"
)

type Integer uint32

func readInteger(b []byte) Integer {
	return Integer(binary.BigEndian.Uint32(b))
}

func (i Integer) Int() int {
	return int(i)
}

func (i Integer) Uint64() uint64 {
	return uint64(i)
}

func (i Integer) Uint32() uint32 {
	return uint32(i)
}
