package metainfo

import (
	"strings"

	"github.com/bitcore/bitcore/bencode"
)

// The info dictionary. See BEP 3.
type Info struct {
	PieceLength int64 // Not checked to be positive.
	Pieces      Hashes
	Mode        Mode
}

// Mode is the file layout of a torrent: either SingleFile or MultiFile.
type Mode interface {
	// The files in order. Single-file torrents upvert to one file named after the torrent.
	UpvertedFiles() []FileInfo
	TotalLength() int64
	isMode()
}

type SingleFile struct {
	Name   string
	Length int64
}

type MultiFile struct {
	// Advisory directory name.
	Name  string
	Files []FileInfo
}

var (
	_ Mode = SingleFile{}
	_ Mode = MultiFile{}
)

func (SingleFile) isMode() {}
func (MultiFile) isMode()  {}

func (me SingleFile) UpvertedFiles() []FileInfo {
	return []FileInfo{{
		Length:     me.Length,
		Path:       me.Name,
		Components: []string{me.Name},
	}}
}

func (me SingleFile) TotalLength() int64 {
	return me.Length
}

func (me MultiFile) UpvertedFiles() []FileInfo {
	return me.Files
}

func (me MultiFile) TotalLength() (ret int64) {
	for _, fi := range me.Files {
		ret += fi.Length
	}
	return
}

func (info *Info) Name() string {
	switch m := info.Mode.(type) {
	case SingleFile:
		return m.Name
	case MultiFile:
		return m.Name
	}
	return ""
}

func (info *Info) TotalLength() int64 {
	return info.Mode.TotalLength()
}

func (info *Info) NumPieces() int {
	return info.Pieces.Len()
}

// Whether the torrent describes a directory of files.
func (info *Info) IsDir() bool {
	_, ok := info.Mode.(MultiFile)
	return ok
}

func (info *Info) Piece(index int) Piece {
	return Piece{info, index}
}

func parseInfo(d bencode.Dict) (info Info, err error) {
	info.PieceLength, err = d.Int(keyPieceLength)
	if err != nil {
		return
	}
	pieces, err := d.Bytes(keyPieces)
	if err != nil {
		return
	}
	info.Pieces, err = NewHashes(pieces)
	if err != nil {
		return
	}
	name, err := d.Text(keyName)
	if err != nil {
		return
	}
	// The presence of length selects the single-file layout.
	if d.Has(keyLength) {
		var length int64
		length, err = d.Int(keyLength)
		if err != nil {
			return
		}
		info.Mode = SingleFile{Name: name, Length: length}
		return
	}
	files, err := d.List(keyFiles)
	if err != nil {
		return
	}
	mf := MultiFile{Name: name, Files: make([]FileInfo, 0, len(files))}
	var offset int64
	for i, v := range files {
		var fi FileInfo
		fi, err = parseFileInfo(v)
		if err != nil {
			err = &FileError{Index: i, Err: err}
			return
		}
		fi.TorrentOffset = offset
		offset += fi.Length
		mf.Files = append(mf.Files, fi)
	}
	info.Mode = mf
	return
}

func parseFileInfo(v bencode.Value) (fi FileInfo, err error) {
	d, err := v.AsDict()
	if err != nil {
		err = &bencode.ValueError{Key: keyFiles, Err: err}
		return
	}
	fi.Length, err = d.Int(keyLength)
	if err != nil {
		return
	}
	path, err := d.List(keyPath)
	if err != nil {
		return
	}
	if len(path) == 0 {
		err = &BadPathError{Reason: "no path components"}
		return
	}
	fi.Components = make([]string, 0, len(path))
	for _, pv := range path {
		var c string
		c, err = pv.AsString()
		if err != nil {
			err = &bencode.ValueError{Key: keyPath, Err: err}
			return
		}
		if err = checkPathComponent(c); err != nil {
			return
		}
		fi.Components = append(fi.Components, c)
	}
	fi.Path = strings.Join(fi.Components, "/")
	return
}

// Components are joined into a path relative to the torrent root, so they mustn't be able to
// escape it.
func checkPathComponent(c string) error {
	switch {
	case c == "", c == ".", c == "..":
		return &BadPathError{Component: c, Reason: "reserved name"}
	case strings.ContainsAny(c, "/\x00"):
		return &BadPathError{Component: c, Reason: "contains separator or NUL"}
	}
	return nil
}
