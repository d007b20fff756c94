package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/anacrolix/tagflag"
	"github.com/bradfitz/iter"
	"github.com/dustin/go-humanize"

	"github.com/bitcore/bitcore/metainfo"
)

var flags struct {
	JustName    bool
	PieceHashes bool
	Files       bool
	tagflag.StartPos
}

func processReader(r io.Reader) error {
	mi, err := metainfo.Load(r)
	if err != nil {
		return err
	}
	info := &mi.Info
	if flags.JustName {
		fmt.Printf("%s\n", info.Name())
		return nil
	}
	d := map[string]interface{}{
		"Name":        info.Name(),
		"NumPieces":   info.NumPieces(),
		"PieceLength": info.PieceLength,
		"InfoHash":    mi.InfoHash.HexString(),
		"NumFiles":    len(info.Mode.UpvertedFiles()),
		"TotalLength": info.TotalLength(),
		"TotalSize":   humanize.Bytes(uint64(info.TotalLength())),
		"Announce":    mi.Announce.String(),
	}
	if flags.Files {
		d["Files"] = info.Mode.UpvertedFiles()
	}
	if flags.PieceHashes {
		d["PieceHashes"] = func() (ret []string) {
			for i := range iter.N(info.NumPieces()) {
				ret = append(ret, info.Pieces.Hash(i).HexString())
			}
			return
		}()
	}
	b, _ := json.MarshalIndent(d, "", "  ")
	_, err = os.Stdout.Write(b)
	return err
}

func main() {
	tagflag.Parse(&flags)
	err := processReader(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if !flags.JustName {
		os.Stdout.WriteString("\n")
	}
}
