package peer_protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Decodes framed messages from a stream. This is for blocking readers; connections driven by
// callbacks frame their input directly with DecodeBody.
type Decoder struct {
	R         *bufio.Reader
	MaxLength Integer // Limit on the length prefix value.
	buf       []byte
}

// io.EOF is returned if the source terminates cleanly on a message boundary. The message is only
// valid until the next call to Decode.
func (d *Decoder) Decode() (msg Message, err error) {
	var lenBuf [LengthPrefixLen]byte
	_, err = io.ReadFull(d.R, lenBuf[:])
	if err != nil {
		if err != io.EOF {
			err = fmt.Errorf("reading message length: %w", err)
		}
		return
	}
	length := readInteger(lenBuf[:])
	if length > d.MaxLength {
		return nil, &MessageTooLongError{length, d.MaxLength}
	}
	if cap(d.buf) < length.Int() {
		d.buf = make([]byte, length)
	}
	d.buf = d.buf[:length]
	_, err = io.ReadFull(d.R, d.buf)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, fmt.Errorf("reading message body: %w", err)
	}
	return DecodeBody(d.buf)
}

// Handshakes must be read before any messages.
func (d *Decoder) ReadHandshake() (h Handshake, err error) {
	pstrLen, err := d.R.Peek(1)
	if err != nil {
		return
	}
	b := make([]byte, HandshakeLen(pstrLen[0]))
	_, err = io.ReadFull(d.R, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return
	}
	return ParseHandshake(b)
}
