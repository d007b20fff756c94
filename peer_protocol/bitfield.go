package peer_protocol

// The pieces a peer has, most significant bit first. Bitfield messages borrow their bytes from the
// decode buffer.
type Bitfield []byte

func BitfieldLen(numPieces int) int {
	return (numPieces + 7) / 8
}

func NewBitfield(numPieces int, has func(int) bool) Bitfield {
	bf := make(Bitfield, BitfieldLen(numPieces))
	for i := range numPieces {
		if has(i) {
			bf[i/8] |= 1 << (7 - i%8)
		}
	}
	return bf
}

// Out of range pieces are reported missing.
func (bf Bitfield) Get(i int) bool {
	if i < 0 || i/8 >= len(bf) {
		return false
	}
	return bf[i/8]&(1<<(7-i%8)) != 0
}

// Checks the bitfield is the right length for a torrent of numPieces and that the spare bits at
// the end are clear.
func (bf Bitfield) Validate(numPieces int) error {
	if len(bf) != BitfieldLen(numPieces) {
		return &PayloadLengthError{TypeBitfield, len(bf)}
	}
	if spare := numPieces % 8; spare != 0 && bf[len(bf)-1]&(0xff>>spare) != 0 {
		return ErrBitfieldSpareBits
	}
	return nil
}

// Calls f with the index of each piece present.
func (bf Bitfield) Range(f func(int) bool) {
	for i, c := range bf {
		for j := 0; c != 0; j++ {
			if c&0x80 != 0 && !f(i*8+j) {
				return
			}
			c <<= 1
		}
	}
}
