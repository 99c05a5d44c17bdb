package layered

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"unicode/utf8"

	"p2pmessenger/internal/util/memzero"
)

const (
	aesKeyBytes = 32
	aesIVBytes  = aes.BlockSize
	desKeyBytes = 24
	desIVBytes  = des.BlockSize
)

var (
	labelKey = []byte("Key Derivation")
	labelIV  = []byte("IV Derivation")
	labelXOR = []byte("XOR sequence")
)

var (
	// ErrDecryption is returned when an inbound payload cannot be decrypted.
	ErrDecryption = errors.New("decryption failed")
	// ErrNoSecret is returned when no shared secret is supplied.
	ErrNoSecret = errors.New("shared secret is empty")
)

// Cipher encrypts and decrypts messages under a shared secret. The zero
// value is not usable; call New.
type Cipher struct {
	nonces *NonceSource
}

// New returns a Cipher drawing nonces from src. A nil src uses a clock-backed
// NonceSource.
func New(src *NonceSource) *Cipher {
	if src == nil {
		src = NewNonceSource(nil)
	}
	return &Cipher{nonces: src}
}

var defaultCipher = New(nil)

// Encrypt encrypts plaintext with the package-level nonce source.
func Encrypt(plaintext string, secret []byte) ([]byte, error) {
	return defaultCipher.Encrypt(plaintext, secret)
}

// Decrypt reverses Encrypt.
func Decrypt(payload, secret []byte) (string, error) {
	return defaultCipher.Decrypt(payload, secret)
}

// Encrypt returns nonce‖ciphertext for plaintext under secret.
func (c *Cipher) Encrypt(plaintext string, secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	nonce := c.nonces.Next()
	k := deriveKeys(secret, nonce[:])
	defer k.wipe()

	inner, err := cbcEncrypt(aes.NewCipher, k.aesKey, k.aesIV, []byte(plaintext))
	if err != nil {
		return nil, err
	}
	whiten(inner, k.aesKey)

	outer, err := cbcEncrypt(des.NewTripleDESCipher, k.desKey, k.desIV, inner)
	if err != nil {
		return nil, err
	}
	whiten(outer, k.desKey)

	out := make([]byte, 0, NonceBytes+len(outer))
	out = append(out, nonce[:]...)
	return append(out, outer...), nil
}

// Decrypt splits off the nonce, re-derives the layer keys and undoes both
// layers. Every failure is reported as ErrDecryption.
func (c *Cipher) Decrypt(payload, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	if len(payload) <= NonceBytes {
		return "", fmt.Errorf("%w: payload too short (%d bytes)", ErrDecryption, len(payload))
	}
	nonce, body := payload[:NonceBytes], payload[NonceBytes:]
	k := deriveKeys(secret, nonce)
	defer k.wipe()

	outer := append([]byte(nil), body...)
	whiten(outer, k.desKey)
	inner, err := cbcDecrypt(des.NewTripleDESCipher, k.desKey, k.desIV, outer)
	if err != nil {
		return "", fmt.Errorf("%w: 3des layer: %v", ErrDecryption, err)
	}

	whiten(inner, k.aesKey)
	plain, err := cbcDecrypt(aes.NewCipher, k.aesKey, k.aesIV, inner)
	if err != nil {
		return "", fmt.Errorf("%w: aes layer: %v", ErrDecryption, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not utf-8", ErrDecryption)
	}
	return string(plain), nil
}

type layerKeys struct {
	aesKey, aesIV []byte
	desKey, desIV []byte
}

func (k layerKeys) wipe() { memzero.ZeroAll(k.aesKey, k.aesIV, k.desKey, k.desIV) }

// deriveKeys computes both key/IV pairs from HMAC-SHA256(secret‖nonce).
// The two layers share the HMAC outputs and differ only in truncation.
func deriveKeys(secret, nonce []byte) layerKeys {
	hk := make([]byte, 0, len(secret)+len(nonce))
	hk = append(hk, secret...)
	hk = append(hk, nonce...)
	defer memzero.Zero(hk)

	key := hmacSum(hk, labelKey)
	iv := hmacSum(hk, labelIV)
	defer memzero.ZeroAll(key, iv)

	return layerKeys{
		aesKey: clone(key[:aesKeyBytes]),
		aesIV:  clone(iv[:aesIVBytes]),
		desKey: clone(key[:desKeyBytes]),
		desIV:  clone(iv[:desIVBytes]),
	}
}

// whiten XORs b in place with HMAC-SHA256(key, "XOR sequence") tiled to
// len(b). The operation is its own inverse.
func whiten(b, key []byte) {
	stream := hmacSum(key, labelXOR)
	for i := range b {
		b[i] ^= stream[i%len(stream)]
	}
	memzero.Zero(stream)
}

func cbcEncrypt(newBlock func([]byte) (cipher.Block, error), key, iv, plain []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	buf := pad(plain, block.BlockSize())
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(buf, buf)
	return buf, nil
}

func cbcDecrypt(newBlock func([]byte) (cipher.Block, error), key, iv, ct []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	bs := block.BlockSize()
	if len(ct) == 0 || len(ct)%bs != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of %d", len(ct), bs)
	}
	buf := append([]byte(nil), ct...)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, buf)
	out, ok := unpad(buf, bs)
	if !ok {
		return nil, errors.New("bad padding")
	}
	return out, nil
}

func hmacSum(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func clone(b []byte) []byte { return append([]byte(nil), b...) }
