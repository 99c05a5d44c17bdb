package memzero_test

import (
	"bytes"
	"testing"

	"p2pmessenger/internal/util/memzero"
)

func TestZeroAll(t *testing.T) {
	a := []byte{1, 2, 3}
	b := bytes.Repeat([]byte{0xff}, 48)

	memzero.ZeroAll(a, nil, b)

	if !bytes.Equal(a, make([]byte, 3)) {
		t.Fatalf("a not wiped: %x", a)
	}
	if !bytes.Equal(b, make([]byte, 48)) {
		t.Fatalf("b not wiped: %x", b)
	}
}
