package tracker

import (
	"net/netip"
)

// The length of a peer in the compact format: an IPv4 address and a port, both big-endian.
const compactPeerLen = 6

type Peer struct {
	IP   netip.Addr
	Port uint16
}

func (p Peer) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(p.IP, p.Port)
}

func (p Peer) String() string {
	return p.AddrPort().String()
}

func unmarshalCompactPeers(b []byte) (ret []Peer, err error) {
	if len(b)%compactPeerLen != 0 {
		err = &BadPeerFormatError{len(b)}
		return
	}
	ret = make([]Peer, 0, len(b)/compactPeerLen)
	for ; len(b) != 0; b = b[compactPeerLen:] {
		ret = append(ret, Peer{
			IP:   netip.AddrFrom4([4]byte(b[:4])),
			Port: uint16(b[4])<<8 | uint16(b[5]),
		})
	}
	return
}

// Peers that aren't IPv4 can't be represented and are skipped.
func appendCompactPeers(b []byte, peers []Peer) []byte {
	for _, p := range peers {
		addr := p.IP.Unmap()
		if !addr.Is4() {
			continue
		}
		ip := addr.As4()
		b = append(b, ip[:]...)
		b = append(b, byte(p.Port>>8), byte(p.Port))
	}
	return b
}
