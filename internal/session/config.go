package session

import (
	"fmt"
	"time"
)

// Config holds the tunables of a peer session.
type Config struct {
	// ListenAddr is the address a Listener binds, e.g. ":12345".
	ListenAddr string
	// RekeyInterval is how long a shared secret is used before a new
	// exchange is started.
	RekeyInterval time.Duration
	// PollInterval is how often the handler checks the rekey timer.
	PollInterval time.Duration
	// HandshakeTimeout bounds the initial key block exchange. Zero waits
	// forever.
	HandshakeTimeout time.Duration
	// RekeyTimeout bounds how long a rekey may stay unanswered before the
	// connection is dropped, and how long Send waits for it. Zero waits
	// forever.
	RekeyTimeout time.Duration
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":12345",
		RekeyInterval: time.Minute,
		PollInterval:  250 * time.Millisecond,
		RekeyTimeout:  10 * time.Second,
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch {
	case c.RekeyInterval <= 0:
		return fmt.Errorf("rekey interval must be positive, got %s", c.RekeyInterval)
	case c.PollInterval <= 0:
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	case c.HandshakeTimeout < 0:
		return fmt.Errorf("handshake timeout must not be negative, got %s", c.HandshakeTimeout)
	case c.RekeyTimeout < 0:
		return fmt.Errorf("rekey timeout must not be negative, got %s", c.RekeyTimeout)
	}
	return nil
}
