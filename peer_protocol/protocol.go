package peer_protocol

import (
	"fmt"
)

const (
	Protocol = "BitTorrent protocol"
	// The bytes of a handshake other than the protocol string: the length byte, the reserved
	// bytes, the info hash and the peer ID.
	HandshakeRestLen = 1 + 8 + 20 + 20
	// Length of the message length prefix.
	LengthPrefixLen = 4
)

type MessageType byte

const (
	TypeChoke         MessageType = iota
	TypeUnchoke                   // 1
	TypeInterested                // 2
	TypeNotInterested             // 3
	TypeHave                      // 4
	TypeBitfield                  // 5
	TypeRequest                   // 6
	TypePiece                     // 7
	TypeCancel                    // 8
	TypePort                      // 9

	// Keep-alives are empty on the wire and have no ID.
	TypeKeepAlive MessageType = 0xff
)

var typeNames = [...]string{
	TypeChoke:         "choke",
	TypeUnchoke:       "unchoke",
	TypeInterested:    "interested",
	TypeNotInterested: "not interested",
	TypeHave:          "have",
	TypeBitfield:      "bitfield",
	TypeRequest:       "request",
	TypePiece:         "piece",
	TypeCancel:        "cancel",
	TypePort:          "port",
}

func (t MessageType) String() string {
	if t == TypeKeepAlive {
		return "keepalive"
	}
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("MessageType(%d)", byte(t))
}
