package testutil

import (
	"strings"

	"github.com/bitcore/bitcore/bencode"
	"github.com/bitcore/bitcore/types/infohash"
)

type File struct {
	Name string
	Data string
}

// High-level description of a torrent for testing purposes.
type Torrent struct {
	Files []File
	Name  string
}

func (t *Torrent) IsDir() bool {
	return !(len(t.Files) == 1 && t.Files[0].Name == "")
}

func (t *Torrent) data() string {
	var sb strings.Builder
	for _, f := range t.Files {
		sb.WriteString(f.Data)
	}
	return sb.String()
}

// Pieces returns the concatenated SHA1 hashes of the torrent data split at pieceLength.
func (t *Torrent) Pieces(pieceLength int64) []byte {
	data := t.data()
	var pieces []byte
	for off := int64(0); off < int64(len(data)); off += pieceLength {
		end := min(off+pieceLength, int64(len(data)))
		h := infohash.HashBytes([]byte(data[off:end]))
		pieces = append(pieces, h[:]...)
	}
	return pieces
}

// Info builds the info dict with the provided piece length.
func (t *Torrent) Info(pieceLength int64) bencode.Value {
	d := bencode.Dict{
		"name":         bencode.String(t.Name),
		"piece length": bencode.Int(pieceLength),
		"pieces":       bencode.Bytes(t.Pieces(pieceLength)),
	}
	if !t.IsDir() {
		d["length"] = bencode.Int(int64(len(t.Files[0].Data)))
	} else {
		var files []bencode.Value
		for _, f := range t.Files {
			var path []bencode.Value
			for _, c := range strings.Split(f.Name, "/") {
				path = append(path, bencode.String(c))
			}
			files = append(files, bencode.NewDict(bencode.Dict{
				"length": bencode.Int(int64(len(f.Data))),
				"path":   bencode.List(path...),
			}))
		}
		d["files"] = bencode.List(files...)
	}
	return bencode.NewDict(d)
}

// Metainfo encodes a whole torrent file announcing to the given tracker URL.
func (t *Torrent) Metainfo(pieceLength int64, announce string) []byte {
	return bencode.Marshal(bencode.NewDict(bencode.Dict{
		"announce": bencode.String(announce),
		"info":     t.Info(pieceLength),
	}))
}
