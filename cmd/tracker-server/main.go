package main

import (
	"net/http"
	"time"

	"github.com/anacrolix/log"
	"github.com/anacrolix/tagflag"

	"github.com/bitcore/bitcore/internal/envx"
	"github.com/bitcore/bitcore/tracker/server"
)

func main() {
	flags := struct {
		Addr     string
		Interval time.Duration
		MaxPeers int
	}{
		Addr:     envx.String(":6969", "BITCORE_TRACKER_ADDR"),
		Interval: 5 * time.Minute,
		MaxPeers: 50,
	}
	tagflag.Parse(&flags)
	logger := log.Default.WithNames("tracker-server")
	h := &server.Handler{
		Interval: int32(flags.Interval / time.Second),
		MaxPeers: flags.MaxPeers,
		Logger:   logger,
	}
	mux := http.NewServeMux()
	mux.Handle("/announce", h)
	logger.Levelf(log.Info, "serving announces on %v", flags.Addr)
	err := http.ListenAndServe(flags.Addr, mux)
	logger.Levelf(log.Critical, "serving: %v", err)
}
