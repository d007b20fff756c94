package main

import (
	"fmt"
	"log"

	"github.com/anacrolix/tagflag"

	"github.com/bitcore/bitcore/metainfo"
)

func main() {
	var flags struct {
		tagflag.StartPos
		Torrents []string `arity:"+"`
	}
	tagflag.Parse(&flags)
	for _, arg := range flags.Torrents {
		mi, err := metainfo.LoadFromFile(arg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %s\n", mi.InfoHash.HexString(), arg)
	}
}
