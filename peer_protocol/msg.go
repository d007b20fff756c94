package peer_protocol

import (
	"encoding/binary"
	"fmt"
)

// Message is one of the core BitTorrent messages. The set is closed: every implementation is in
// this package, so a type switch over the variants can cover all of them.
type Message interface {
	Type() MessageType
	// Appends the ID and payload, without the length prefix.
	appendBody(b []byte) []byte
}

type (
	KeepAlive     struct{}
	Choke         struct{}
	Unchoke       struct{}
	Interested    struct{}
	NotInterested struct{}
	Have          struct {
		Index Integer
	}
	Request struct {
		Index, Begin, Length Integer
	}
	// Block borrows from the buffer the message was decoded from.
	Piece struct {
		Index, Begin Integer
		Block        []byte
	}
	Cancel struct {
		Index, Begin, Length Integer
	}
	Port struct {
		Port uint16
	}
)

func (KeepAlive) Type() MessageType     { return TypeKeepAlive }
func (Choke) Type() MessageType         { return TypeChoke }
func (Unchoke) Type() MessageType       { return TypeUnchoke }
func (Interested) Type() MessageType    { return TypeInterested }
func (NotInterested) Type() MessageType { return TypeNotInterested }
func (Have) Type() MessageType          { return TypeHave }
func (Bitfield) Type() MessageType      { return TypeBitfield }
func (Request) Type() MessageType       { return TypeRequest }
func (Piece) Type() MessageType         { return TypePiece }
func (Cancel) Type() MessageType        { return TypeCancel }
func (Port) Type() MessageType          { return TypePort }

func (KeepAlive) appendBody(b []byte) []byte { return b }

func (me Choke) appendBody(b []byte) []byte         { return append(b, byte(me.Type())) }
func (me Unchoke) appendBody(b []byte) []byte       { return append(b, byte(me.Type())) }
func (me Interested) appendBody(b []byte) []byte    { return append(b, byte(me.Type())) }
func (me NotInterested) appendBody(b []byte) []byte { return append(b, byte(me.Type())) }

func (me Have) appendBody(b []byte) []byte {
	b = append(b, byte(TypeHave))
	return binary.BigEndian.AppendUint32(b, me.Index.Uint32())
}

func (me Bitfield) appendBody(b []byte) []byte {
	b = append(b, byte(TypeBitfield))
	return append(b, me...)
}

func appendRequestSpec(b []byte, t MessageType, index, begin, length Integer) []byte {
	b = append(b, byte(t))
	b = binary.BigEndian.AppendUint32(b, index.Uint32())
	b = binary.BigEndian.AppendUint32(b, begin.Uint32())
	return binary.BigEndian.AppendUint32(b, length.Uint32())
}

func (me Request) appendBody(b []byte) []byte {
	return appendRequestSpec(b, TypeRequest, me.Index, me.Begin, me.Length)
}

func (me Cancel) appendBody(b []byte) []byte {
	return appendRequestSpec(b, TypeCancel, me.Index, me.Begin, me.Length)
}

func (me Piece) appendBody(b []byte) []byte {
	b = append(b, byte(TypePiece))
	b = binary.BigEndian.AppendUint32(b, me.Index.Uint32())
	b = binary.BigEndian.AppendUint32(b, me.Begin.Uint32())
	return append(b, me.Block...)
}

func (me Port) appendBody(b []byte) []byte {
	b = append(b, byte(TypePort))
	return binary.BigEndian.AppendUint16(b, me.Port)
}

func (me Have) String() string {
	return fmt.Sprintf("have(%v)", me.Index)
}

func (me Request) String() string {
	return fmt.Sprintf("request(%v, %v, %v)", me.Index, me.Begin, me.Length)
}

func (me Cancel) String() string {
	return fmt.Sprintf("cancel(%v, %v, %v)", me.Index, me.Begin, me.Length)
}

func (me Piece) String() string {
	return fmt.Sprintf("piece(%v, %v, %v bytes)", me.Index, me.Begin, len(me.Block))
}

// Appends the framed message: a 4 byte big-endian length followed by the ID and payload.
func AppendMessage(b []byte, msg Message) []byte {
	lenOff := len(b)
	b = append(b, 0, 0, 0, 0)
	b = msg.appendBody(b)
	binary.BigEndian.PutUint32(b[lenOff:], uint32(len(b)-lenOff-LengthPrefixLen))
	return b
}

func Marshal(msg Message) []byte {
	return AppendMessage(nil, msg)
}

// Decodes the ID and payload of a message whose length prefix has already been read. b must be
// non-empty, as empty messages are keep-alives. The returned message may borrow from b.
func DecodeBody(b []byte) (Message, error) {
	if len(b) == 0 {
		return KeepAlive{}, nil
	}
	t := MessageType(b[0])
	p := b[1:]
	fixed := func(n int) error {
		if len(p) != n {
			return &PayloadLengthError{t, len(p)}
		}
		return nil
	}
	switch t {
	case TypeChoke, TypeUnchoke, TypeInterested, TypeNotInterested:
		if err := fixed(0); err != nil {
			return nil, err
		}
		switch t {
		case TypeChoke:
			return Choke{}, nil
		case TypeUnchoke:
			return Unchoke{}, nil
		case TypeInterested:
			return Interested{}, nil
		default:
			return NotInterested{}, nil
		}
	case TypeHave:
		if err := fixed(4); err != nil {
			return nil, err
		}
		return Have{readInteger(p)}, nil
	case TypeBitfield:
		return Bitfield(p), nil
	case TypeRequest, TypeCancel:
		if err := fixed(12); err != nil {
			return nil, err
		}
		index, begin, length := readInteger(p), readInteger(p[4:]), readInteger(p[8:])
		if t == TypeRequest {
			return Request{index, begin, length}, nil
		}
		return Cancel{index, begin, length}, nil
	case TypePiece:
		if len(p) < 8 {
			return nil, &PayloadLengthError{t, len(p)}
		}
		return Piece{
			Index: readInteger(p),
			Begin: readInteger(p[4:]),
			Block: p[8:len(p):len(p)],
		}, nil
	case TypePort:
		if err := fixed(2); err != nil {
			return nil, err
		}
		return Port{binary.BigEndian.Uint16(p)}, nil
	default:
		return nil, &UnknownMessageTypeError{t}
	}
}
