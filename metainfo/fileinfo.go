package metainfo

// Information specific to a single file inside the MetaInfo structure.
type FileInfo struct {
	Length int64
	// Components joined with "/", relative to the torrent root.
	Path       string
	Components []string
	// Offset of the file's first byte in the concatenated torrent data.
	TorrentOffset int64
}

func (fi FileInfo) DisplayPath(info *Info) string {
	if info.IsDir() {
		return fi.Path
	}
	return info.Name()
}
