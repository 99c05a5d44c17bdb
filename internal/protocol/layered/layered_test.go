package layered_test

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"time"

	"p2pmessenger/internal/protocol/layered"
)

func randomSecret(t *testing.T) []byte {
	t.Helper()
	s := make([]byte, 32)
	if _, err := rand.Read(s); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return s
}

func frozenClock() func() time.Time {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	secret := randomSecret(t)
	inputs := []string{
		"",
		"hello",
		"exactly sixteen!",
		"grüße, 世界 🙂",
		strings.Repeat("long line of text ", 200),
	}
	for _, in := range inputs {
		ct, err := layered.Encrypt(in, secret)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", in, err)
		}
		got, err := layered.Decrypt(ct, secret)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", in, err)
		}
		if got != in {
			t.Fatalf("round trip: got %q, want %q", got, in)
		}
	}
}

func TestEncrypt_PayloadShape(t *testing.T) {
	secret := randomSecret(t)
	c := layered.New(layered.NewNonceSource(frozenClock()))

	ct, err := c.Encrypt("hello", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	// AES pads 5 bytes to 16; 3DES pads 16 to 24.
	if len(ct) != layered.NonceBytes+24 {
		t.Fatalf("payload length %d, want %d", len(ct), layered.NonceBytes+24)
	}
	wantTicks := layered.Ticks(frozenClock()())
	if got := int64(binary.LittleEndian.Uint64(ct[:layered.NonceBytes])); got != wantTicks {
		t.Fatalf("nonce ticks %d, want %d", got, wantTicks)
	}
}

func TestEncrypt_NonceSensitivity(t *testing.T) {
	secret := randomSecret(t)
	c := layered.New(layered.NewNonceSource(frozenClock()))

	a, err := c.Encrypt("same text", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := c.Encrypt("same text", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a[:layered.NonceBytes], b[:layered.NonceBytes]) {
		t.Fatal("nonce repeated under a frozen clock")
	}
	if bytes.Equal(a[layered.NonceBytes:], b[layered.NonceBytes:]) {
		t.Fatal("different nonces produced identical ciphertext")
	}
}

func TestEncrypt_DeterministicForNonce(t *testing.T) {
	secret := randomSecret(t)
	a, err := layered.New(layered.NewNonceSource(frozenClock())).Encrypt("det", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := layered.New(layered.NewNonceSource(frozenClock())).Encrypt("det", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same secret, nonce and plaintext gave different payloads")
	}
}

// A flipped byte either fails to decrypt or yields other text. There is no
// MAC, so neither outcome is guaranteed on its own.
func TestDecrypt_TamperedPayload(t *testing.T) {
	secret := randomSecret(t)
	ct, err := layered.Encrypt("attack at dawn", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	for i := layered.NonceBytes; i < len(ct); i++ {
		bad := append([]byte(nil), ct...)
		bad[i] ^= 0x5a
		got, err := layered.Decrypt(bad, secret)
		if err == nil && got == "attack at dawn" {
			t.Fatalf("byte %d flipped but plaintext unchanged", i)
		}
		if err != nil && !errors.Is(err, layered.ErrDecryption) {
			t.Fatalf("byte %d: unexpected error type %v", i, err)
		}
	}
}

func TestDecrypt_OldSecretAfterRekey(t *testing.T) {
	oldSecret := randomSecret(t)
	newSecret := randomSecret(t)

	ct, err := layered.Encrypt("before rekey", oldSecret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := layered.Decrypt(ct, newSecret)
	if err == nil && got == "before rekey" {
		t.Fatal("message under the old secret decrypted under the new one")
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	secret := randomSecret(t)
	cases := map[string][]byte{
		"empty":       nil,
		"nonce only":  make([]byte, layered.NonceBytes),
		"unaligned":   make([]byte, layered.NonceBytes+5),
		"zero blocks": make([]byte, layered.NonceBytes+24),
	}
	for name, payload := range cases {
		if _, err := layered.Decrypt(payload, secret); !errors.Is(err, layered.ErrDecryption) {
			t.Fatalf("%s: want ErrDecryption, got %v", name, err)
		}
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := layered.Encrypt("x", nil); !errors.Is(err, layered.ErrNoSecret) {
		t.Fatalf("Encrypt: want ErrNoSecret, got %v", err)
	}
	if _, err := layered.Decrypt(make([]byte, 32), nil); !errors.Is(err, layered.ErrNoSecret) {
		t.Fatalf("Decrypt: want ErrNoSecret, got %v", err)
	}
}

func TestNonceSource_Monotonic(t *testing.T) {
	src := layered.NewNonceSource(frozenClock())
	prev := src.Next()
	for i := 0; i < 1000; i++ {
		n := src.Next()
		if binary.LittleEndian.Uint64(n[:]) <= binary.LittleEndian.Uint64(prev[:]) {
			t.Fatalf("nonce %d did not increase", i)
		}
		prev = n
	}
}

func TestTicks_Epoch(t *testing.T) {
	if got := layered.Ticks(time.Unix(0, 0)); got != 621355968000000000 {
		t.Fatalf("Ticks(unix epoch) = %d", got)
	}
}
