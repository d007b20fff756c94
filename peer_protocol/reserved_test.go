package peer_protocol

import (
	"testing"

	qt "github.com/go-quicktest/qt"
)

func TestLtepBitLocation(t *testing.T) {
	var bits PeerExtensionBits
	bits.SetBit(ExtensionBitLtep, true)
	qt.Assert(t, qt.Equals(bits[5], byte(0x10)))
	qt.Check(t, qt.IsTrue(bits.GetBit(ExtensionBitLtep)))
	qt.Check(t, qt.Equals(bits.String(), "0000000000100000 (ltep)"))
	bits.SetBit(ExtensionBitDht, true)
	bits.SetBit(63, true)
	qt.Check(t, qt.Equals(bits.String(), "8000000000100001 (ltep, dht, 1 unknown)"))
}
