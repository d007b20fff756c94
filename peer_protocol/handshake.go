package peer_protocol

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"unsafe"

	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/types/infohash"
)

type ExtensionBit uint

// Reserved bits are carried through handshakes so they can be logged, but nothing is negotiated
// with them.
//
// https://www.bittorrent.org/beps/bep_0004.html
// https://wiki.theory.org/BitTorrentSpecification.html#Reserved_Bytes
const (
	ExtensionBitDht  = 0 // http://www.bittorrent.org/beps/bep_0005.html
	ExtensionBitFast = 2 // http://www.bittorrent.org/beps/bep_0006.html
	// LibTorrent Extension Protocol, http://www.bittorrent.org/beps/bep_0010.html
	ExtensionBitLtep = 20
)

type PeerExtensionBits [8]byte

var bitTags = []struct {
	bit ExtensionBit
	tag string
}{
	// Ordered by their bit position left to right.
	{ExtensionBitLtep, "ltep"},
	{ExtensionBitFast, "fast"},
	{ExtensionBitDht, "dht"},
}

func (pex PeerExtensionBits) String() string {
	pexHex := hex.EncodeToString(pex[:])
	tags := make([]string, 0, len(bitTags)+1)
	for _, bitTag := range bitTags {
		if pex.GetBit(bitTag.bit) {
			tags = append(tags, bitTag.tag)
			pex.SetBit(bitTag.bit, false)
		}
	}
	unknownCount := bits.OnesCount64(*(*uint64)((unsafe.Pointer(&pex[0]))))
	if unknownCount != 0 {
		tags = append(tags, fmt.Sprintf("%v unknown", unknownCount))
	}
	return fmt.Sprintf("%v (%s)", pexHex, strings.Join(tags, ", "))
}

func (pex *PeerExtensionBits) SetBit(bit ExtensionBit, on bool) {
	if on {
		pex[7-bit/8] |= 1 << (bit % 8)
	} else {
		pex[7-bit/8] &^= 1 << (bit % 8)
	}
}

func (pex PeerExtensionBits) GetBit(bit ExtensionBit) bool {
	return pex[7-bit/8]&(1<<(bit%8)) != 0
}

// The fixed-layout message that opens every peer connection: the protocol string prefixed by its
// length, 8 reserved bytes, the info hash and the sender's peer ID.
type Handshake struct {
	Reserved PeerExtensionBits
	InfoHash infohash.T
	PeerID   types.PeerID
}

// The total handshake length given the protocol string length in its first byte.
func HandshakeLen(pstrLen byte) int {
	return int(pstrLen) + HandshakeRestLen
}

func AppendHandshake(b []byte, h Handshake) []byte {
	b = append(b, byte(len(Protocol)))
	b = append(b, Protocol...)
	b = append(b, h.Reserved[:]...)
	b = append(b, h.InfoHash[:]...)
	return append(b, h.PeerID[:]...)
}

// Parses a complete handshake, including the leading length byte. The protocol string must be
// exactly Protocol. The info hash is returned for the caller to check.
func ParseHandshake(b []byte) (h Handshake, err error) {
	if len(b) == 0 {
		err = &HandshakeError{"empty"}
		return
	}
	if len(b) != HandshakeLen(b[0]) {
		err = &HandshakeError{"length " + strconv.Itoa(len(b)) + " doesn't match protocol string length " + strconv.Itoa(int(b[0]))}
		return
	}
	pstr := b[1 : 1+b[0]]
	// This gets optimized to runtime.memequal
	if string(pstr) != Protocol {
		err = &HandshakeError{fmt.Sprintf("unexpected protocol string %q", pstr)}
		return
	}
	b = b[1+len(pstr):]
	b = b[copy(h.Reserved[:], b):]
	b = b[copy(h.InfoHash[:], b):]
	copy(h.PeerID[:], b)
	return
}
