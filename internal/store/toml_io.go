package store

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ReadTOML decodes the file at path into out. It reports false, and leaves
// out untouched, when the file does not exist. Keys in the file that out
// has no field for are an error.
func ReadTOML(path string, out any) (bool, error) {
	b, err := ReadFile(path)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	md, err := toml.Decode(string(b), out)
	if err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return true, fmt.Errorf("decode %s: unknown key %q", path, undecoded[0].String())
	}
	return true, nil
}

// WriteTOML encodes v and writes it atomically.
func WriteTOML(path string, v any, mode os.FileMode) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteFile(path, buf.Bytes(), mode)
}
