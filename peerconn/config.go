package peerconn

import (
	"time"

	"github.com/anacrolix/log"

	"github.com/bitcore/bitcore/internal/envx"
	pp "github.com/bitcore/bitcore/peer_protocol"
	"github.com/bitcore/bitcore/types"
	"github.com/bitcore/bitcore/version"
)

const (
	EnvHandshakeTimeout = "BITCORE_HANDSHAKE_TIMEOUT"
	EnvMessageTimeout   = "BITCORE_MESSAGE_TIMEOUT"
	EnvMaxMessageLength = "BITCORE_MAX_MESSAGE_LENGTH"
)

// Probably not safe to modify this after it's given to a Conn.
type Config struct {
	// Sent in our handshake.
	PeerID types.PeerID
	// Deadline for each step of the handshake.
	HandshakeTimeout time.Duration
	// Maximum time to wait for the next message or part of one, and for output to flush. Peers
	// should send keep-alives more often than this.
	MessageTimeout time.Duration
	// Messages with a longer length prefix close the connection.
	MaxMessageLength pp.Integer
	Logger           log.Logger
	// Source of deadlines. Defaults to time.Now.
	Now func() time.Time
}

func NewDefaultConfig() *Config {
	return &Config{
		PeerID:           types.RandomPeerID(version.DefaultBep20Prefix),
		HandshakeTimeout: 10 * time.Second,
		MessageTimeout:   10 * time.Second,
		// Enough for a bitfield of 2M pieces, or a 16 KiB block with plenty of room.
		MaxMessageLength: 256 << 10,
		Logger:           log.Default.WithNames("peerconn"),
		Now:              time.Now,
	}
}

// ConfigFromEnv returns the default config with limits overridden from the environment.
func ConfigFromEnv() *Config {
	cfg := NewDefaultConfig()
	cfg.HandshakeTimeout = envx.Duration(cfg.HandshakeTimeout, EnvHandshakeTimeout)
	cfg.MessageTimeout = envx.Duration(cfg.MessageTimeout, EnvMessageTimeout)
	cfg.MaxMessageLength = envx.Int(cfg.MaxMessageLength, EnvMaxMessageLength)
	return cfg
}

func (cfg *Config) now() time.Time {
	if cfg.Now == nil {
		return time.Now()
	}
	return cfg.Now()
}
