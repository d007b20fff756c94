package metainfo

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/bitcore/bitcore/bencode"
)

const (
	keyAnnounce    = "announce"
	keyInfo        = "info"
	keyPieceLength = "piece length"
	keyPieces      = "pieces"
	keyName        = "name"
	keyLength      = "length"
	keyFiles       = "files"
	keyPath        = "path"
)

// MetaInfo is a decoded torrent file. Byte and string fields share memory with the buffer passed
// to Parse, so that buffer must not be modified afterwards.
type MetaInfo struct {
	Announce *url.URL
	Info     Info
	// The info dict exactly as it appeared in the torrent file.
	InfoBytes []byte
	// The SHA1 of InfoBytes.
	InfoHash Hash
}

// Parse decodes a torrent file. Either the whole MetaInfo is returned or the first error found.
func Parse(b []byte) (*MetaInfo, error) {
	v, err := bencode.Unmarshal(b)
	if err != nil {
		return nil, &DecodeError{err}
	}
	d, err := v.TakeDict()
	if err != nil {
		return nil, &bencode.ValueError{Err: err}
	}
	announce, err := d.Text(keyAnnounce)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(announce)
	if err != nil {
		return nil, &BadURLError{URL: announce, Err: err}
	}
	if !u.IsAbs() {
		return nil, &BadURLError{URL: announce}
	}
	infoValue, ok := d.Lookup(keyInfo)
	if !ok {
		return nil, &bencode.MissingKeyError{Key: keyInfo}
	}
	infoDict, err := infoValue.AsDict()
	if err != nil {
		return nil, &bencode.ValueError{Key: keyInfo, Err: err}
	}
	info, err := parseInfo(infoDict)
	if err != nil {
		return nil, err
	}
	return &MetaInfo{
		Announce:  u,
		Info:      info,
		InfoBytes: infoValue.Raw(),
		InfoHash:  HashBytes(infoValue.Raw()),
	}, nil
}

// Load a MetaInfo from an io.Reader. The whole input is read before decoding.
func Load(r io.Reader) (*MetaInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading metainfo: %w", err)
	}
	return Parse(b)
}

// Convenience function for loading a MetaInfo from a file.
func LoadFromFile(filename string) (*MetaInfo, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
