package main

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/anacrolix/tagflag"
	"github.com/dustin/go-humanize"

	"github.com/bitcore/bitcore/metainfo"
)

func verifySummary(sMap map[bool][]int, info *metainfo.Info) {
	fmt.Println("----------------")
	fmt.Println(" TORRENT-VERIFY ")
	fmt.Println("----------------")
	fmt.Printf("Number of correct pieces: %d\n", len(sMap[true]))
	fmt.Printf("Number of wrong pieces: %d\n", len(sMap[false]))
	fmt.Printf("Total size: %s\n", humanize.Bytes(uint64(info.TotalLength())))
}

// Concatenates the torrent's files as found under dataPath. Single-file torrents are read from
// dataPath itself.
func openData(info *metainfo.Info, dataPath string) (io.Reader, func(), error) {
	var (
		readers []io.Reader
		files   []*os.File
	)
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, fi := range info.Mode.UpvertedFiles() {
		name := dataPath
		if info.IsDir() {
			name = filepath.Join(append([]string{dataPath}, fi.Components...)...)
		}
		f, err := os.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, io.LimitReader(f, fi.Length))
	}
	return io.MultiReader(readers...), closeAll, nil
}

func main() {
	var flags struct {
		Summary bool `help:"display summary at the end"`
		tagflag.StartPos
		Torrent string `help:"path of the torrent file"`
		Data    string `help:"path of the torrent data"`
	}
	tagflag.Parse(&flags)
	mi, err := metainfo.LoadFromFile(flags.Torrent)
	if err != nil {
		log.Fatal(err)
	}
	info := &mi.Info
	r, closeData, err := openData(info, flags.Data)
	if err != nil {
		log.Fatal(err)
	}
	defer closeData()
	summaryMap := make(map[bool][]int)
	hash := sha1.New()
	for i := range info.NumPieces() {
		p := info.Piece(i)
		hash.Reset()
		_, err := io.CopyN(hash, r, p.Length())
		if err != nil && err != io.EOF {
			log.Fatal(err)
		}
		pieceValid := bytes.Equal(hash.Sum(nil), p.Hash())
		summaryMap[pieceValid] = append(summaryMap[pieceValid], i)
		fmt.Println(i, pieceValid)
	}
	if flags.Summary {
		verifySummary(summaryMap, info)
	}
}
