package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"p2pmessenger/internal/logging"
	"p2pmessenger/internal/session"
	"p2pmessenger/internal/store"
)

// DefaultConfigFile is the config file name under the user config dir.
const DefaultConfigFile = "p2pmessenger.toml"

// Duration is a time.Duration that reads and writes as a string such as
// "1m30s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the on-disk configuration.
type Config struct {
	ListenAddr       string    `toml:"listen_addr"`
	DialAddr         string    `toml:"dial_addr"`
	RekeyInterval    Duration  `toml:"rekey_interval"`
	PollInterval     Duration  `toml:"poll_interval"`
	HandshakeTimeout Duration  `toml:"handshake_timeout"`
	RekeyTimeout     Duration  `toml:"rekey_timeout"`
	Log              LogConfig `toml:"log"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	s := session.DefaultConfig()
	return Config{
		ListenAddr:       s.ListenAddr,
		DialAddr:         "127.0.0.1:12345",
		RekeyInterval:    Duration(s.RekeyInterval),
		PollInterval:     Duration(s.PollInterval),
		HandshakeTimeout: Duration(s.HandshakeTimeout),
		RekeyTimeout:     Duration(s.RekeyTimeout),
		Log:              LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// DefaultConfigPath returns the config file path under os.UserConfigDir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "p2pmessenger", DefaultConfigFile), nil
}

// LoadConfig reads path over the defaults. An empty path or a missing file
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := store.ReadTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path with owner-only permissions.
func SaveConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return store.WriteTOML(path, cfg, 0o600)
}

// Validate checks the session settings and the log options.
func (c Config) Validate() error {
	if err := c.Session().Validate(); err != nil {
		return err
	}
	if _, err := logging.New(c.Log.Level, c.Log.Format, nil); err != nil {
		return err
	}
	return nil
}

// Session converts the file settings into session settings.
func (c Config) Session() session.Config {
	return session.Config{
		ListenAddr:       c.ListenAddr,
		RekeyInterval:    time.Duration(c.RekeyInterval),
		PollInterval:     time.Duration(c.PollInterval),
		HandshakeTimeout: time.Duration(c.HandshakeTimeout),
		RekeyTimeout:     time.Duration(c.RekeyTimeout),
	}
}
