package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"p2pmessenger/internal/store"
)

type sample struct {
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

func TestReadFile_Missing(t *testing.T) {
	b, err := store.ReadFile(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("read missing: %v", err)
	}
	if b != nil {
		t.Fatalf("got %q, want nil", b)
	}
}

func TestWriteFile_CreatesDirAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.txt")
	if err := store.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := store.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "data" {
		t.Fatalf("got %q", b)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode %v, want 0600", fi.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}

func TestTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	in := sample{Name: "alice", Count: 3}
	if err := store.WriteTOML(path, in, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out sample
	found, err := store.ReadTOML(path, &out)
	if err != nil || !found {
		t.Fatalf("read: found=%v err=%v", found, err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestReadTOML_MissingAndUnknownKey(t *testing.T) {
	dir := t.TempDir()

	var out sample
	found, err := store.ReadTOML(filepath.Join(dir, "missing.toml"), &out)
	if err != nil || found {
		t.Fatalf("missing: found=%v err=%v", found, err)
	}

	path := filepath.Join(dir, "extra.toml")
	if err := os.WriteFile(path, []byte("name = \"x\"\ncolour = \"red\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ReadTOML(path, &out); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
