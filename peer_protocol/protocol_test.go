package peer_protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	// check that iota works as expected in the const block
	if TypeNotInterested != 3 || TypePort != 9 {
		t.FailNow()
	}
	assert.Equal(t, 68, HandshakeLen(byte(len(Protocol))))
}

func TestHaveEncode(t *testing.T) {
	actual := string(Marshal(Have{42}))
	expected := "\x00\x00\x00\x05\x04\x00\x00\x00\x2a"
	if actual != expected {
		t.Fatalf("expected %#v, got %#v", expected, actual)
	}
}

func TestKeepAliveEncode(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0}, Marshal(KeepAlive{}))
}

func TestBitfieldEncode(t *testing.T) {
	bf := NewBitfield(37, func(i int) bool {
		return i == 2 || i == 7 || i == 32
	})
	s := string(bf)
	const expected = "\x21\x00\x00\x00\x80"
	if s != expected {
		t.Fatalf("got %#v, expected %#v", s, expected)
	}
	require.NoError(t, bf.Validate(37))
	assert.True(t, bf.Get(32))
	assert.False(t, bf.Get(33))
	assert.False(t, bf.Get(40))
	assert.False(t, bf.Get(-1))
	var got []int
	bf.Range(func(i int) bool {
		got = append(got, i)
		return true
	})
	assert.Equal(t, []int{2, 7, 32}, got)
}

func TestBitfieldValidate(t *testing.T) {
	var ple *PayloadLengthError
	assert.ErrorAs(t, Bitfield{0, 0}.Validate(17), &ple)
	assert.ErrorAs(t, Bitfield{0, 0, 0, 0}.Validate(17), &ple)
	assert.ErrorIs(t, Bitfield{0, 0, 0x40}.Validate(17), ErrBitfieldSpareBits)
	assert.NoError(t, Bitfield{0, 0, 0x80}.Validate(17))
	assert.NoError(t, Bitfield{0xff}.Validate(8))
	assert.NoError(t, Bitfield{}.Validate(0))
}

func TestMessageRoundTrip(t *testing.T) {
	for _, msg := range []Message{
		Choke{},
		Unchoke{},
		Interested{},
		NotInterested{},
		Have{7},
		Bitfield{0xa0},
		Request{1, 2, 3},
		Piece{1, 0x4000, []byte("block")},
		Cancel{1, 2, 3},
		Port{6881},
	} {
		b := Marshal(msg)
		assert.EqualValues(t, len(b)-LengthPrefixLen, readInteger(b))
		decoded, err := DecodeBody(b[LengthPrefixLen:])
		require.NoError(t, err, msg.Type())
		assert.Equal(t, msg, decoded)
		assert.Equal(t, byte(msg.Type()), b[LengthPrefixLen])
	}
}

func TestDecodeBodyErrors(t *testing.T) {
	var ple *PayloadLengthError
	for _, b := range [][]byte{
		{byte(TypeChoke), 0},
		{byte(TypeHave), 0, 0, 0},
		{byte(TypeRequest), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{byte(TypePiece), 0, 0, 0, 0, 0, 0, 0},
		{byte(TypePort), 1},
	} {
		_, err := DecodeBody(b)
		if assert.ErrorAs(t, err, &ple, b) {
			assert.Equal(t, MessageType(b[0]), ple.Type)
			assert.Equal(t, len(b)-1, ple.Len)
		}
	}
	for _, id := range []byte{10, 20, byte(TypeKeepAlive)} {
		_, err := DecodeBody([]byte{id})
		var umte *UnknownMessageTypeError
		if assert.ErrorAs(t, err, &umte) {
			assert.EqualValues(t, id, umte.Type)
		}
	}
	msg, err := DecodeBody(nil)
	require.NoError(t, err)
	assert.Equal(t, KeepAlive{}, msg)
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "not interested", TypeNotInterested.String())
	assert.Equal(t, "keepalive", TypeKeepAlive.String())
	assert.Equal(t, "MessageType(20)", MessageType(20).String())
}
