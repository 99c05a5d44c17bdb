package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"p2pmessenger/internal/util/memzero"
)

// SecretBytes is the length of a derived shared secret.
const SecretBytes = sha256.Size

// ErrKeyFormat is returned when a peer's public key block cannot be imported.
var ErrKeyFormat = errors.New("invalid peer public key")

// KeyPair is an ephemeral P-256 key pair. It is not safe for concurrent use.
type KeyPair struct {
	priv *ecdh.PrivateKey
}

// GenerateKeyPair returns a fresh P-256 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate p-256 key: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// PublicKeyBlock returns the public half encoded as a fixed-size key block.
func (kp *KeyPair) PublicKeyBlock() [KeyBlockSize]byte {
	return encodeBlock(kp.priv.PublicKey())
}

// Wipe drops the private key. The pair cannot be used afterwards.
func (kp *KeyPair) Wipe() {
	if kp == nil {
		return
	}
	kp.priv = nil
}

// DeriveSharedSecret imports the peer's key block and returns
// SHA-256(ECDH(kp, peer)).
func DeriveSharedSecret(kp *KeyPair, peerBlock []byte) ([]byte, error) {
	if kp == nil || kp.priv == nil {
		return nil, errors.New("key pair already used")
	}
	peer, err := ParsePublicKeyBlock(peerBlock)
	if err != nil {
		return nil, err
	}
	z, err := kp.priv.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	defer memzero.Zero(z)

	sum := sha256.Sum256(z)
	return sum[:], nil
}
