// Package testutil contains stuff for testing torrent-related behaviour.
//
// "greeting" is a single-file torrent of a file called "greeting" that
// "contains "hello, world\n".
package testutil

// Greeting torrent
var Greeting = Torrent{
	Files: []File{{
		Data: GreetingFileContents,
	}},
	Name: GreetingFileName,
}

// various constants.
const (
	GreetingFileContents = "hello, world\n"
	GreetingFileName     = "greeting"
	GreetingPieceLength  = 5
	GreetingAnnounce     = "http://tracker.example.com:6969/announce"
)

// GreetingMetainfo is the encoded torrent file for Greeting.
func GreetingMetainfo() []byte {
	return Greeting.Metainfo(GreetingPieceLength, GreetingAnnounce)
}
