package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"p2pmessenger/internal/app"
	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/session"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.toml")} {
		cfg, err := app.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q): %v", path, err)
		}
		if diff := cmp.Diff(app.DefaultConfig(), cfg); diff != "" {
			t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDefaultConfig_MatchesSession(t *testing.T) {
	want := session.DefaultConfig()
	if diff := cmp.Diff(want, app.DefaultConfig().Session()); diff != "" {
		t.Fatalf("session defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoadConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "p2pmessenger.toml")

	in := app.DefaultConfig()
	in.ListenAddr = ":4000"
	in.DialAddr = "10.0.0.2:4000"
	in.RekeyInterval = app.Duration(90 * time.Second)
	in.HandshakeTimeout = app.Duration(5 * time.Second)
	in.Log = app.LogConfig{Level: "debug", Format: "json"}

	if err := app.SaveConfig(path, in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `rekey_interval = "1m30s"`) {
		t.Fatalf("durations should be written as strings:\n%s", raw)
	}

	out, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.toml")
	if err := os.WriteFile(path, []byte("rekey_interval = \"30s\"\n[log]\nlevel = \"warn\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := app.DefaultConfig()
	want.RekeyInterval = app.Duration(30 * time.Second)
	want.Log.Level = "warn"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad duration":  "poll_interval = \"soon\"\n",
		"zero interval": "rekey_interval = \"0s\"\n",
		"bad level":     "[log]\nlevel = \"loud\"\n",
		"unknown key":   "port = 1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := app.LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApp_BuildsSessions(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.Log.Level = "debug"

	var logs bytes.Buffer
	a, err := app.New(cfg, &logs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events := session.NewEventChannel(64)
	l, err := a.NewListener(events)
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Close()

	d, err := a.NewDialer(nil)
	if err != nil {
		t.Fatalf("NewDialer: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Connect(ctx, l.Addr().String()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := d.Send(ctx, "wired"); err != nil {
		t.Fatalf("Send: %v", err)
	}
wait:
	for {
		select {
		case ev := <-events:
			if ev.Kind == domain.EventMessageReceived {
				if ev.Message.Plaintext != "wired" {
					t.Fatalf("got %q", ev.Message.Plaintext)
				}
				break wait
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for message")
		}
	}

	_ = d.Close()
	_ = l.Close()
	if !strings.Contains(logs.String(), "handshake complete") {
		t.Fatalf("expected session logs in the app logger, got:\n%s", logs.String())
	}
}
