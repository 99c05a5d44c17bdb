package crypto

import (
	"crypto/ecdh"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// KeyBlockSize is the fixed size of a public key block on the wire.
const KeyBlockSize = 256

const (
	coordBytes = 32
	// uncompressed SEC 1 point prefix
	pointPrefix = 0x04
)

var blobMagic = []byte("ECK1")

func encodeBlock(pub *ecdh.PublicKey) [KeyBlockSize]byte {
	point := pub.Bytes() // 0x04 || X || Y

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], coordBytes)

	b := cryptobyte.NewFixedBuilder(make([]byte, 0, KeyBlockSize))
	b.AddBytes(blobMagic)
	b.AddBytes(size[:])
	b.AddBytes(point[1 : 1+coordBytes])
	b.AddBytes(point[1+coordBytes:])

	var out [KeyBlockSize]byte
	copy(out[:], b.BytesOrPanic())
	return out
}

// ParsePublicKeyBlock validates a key block and returns the P-256 point it
// carries.
func ParsePublicKeyBlock(block []byte) (*ecdh.PublicKey, error) {
	if len(block) != KeyBlockSize {
		return nil, fmt.Errorf("%w: block is %d bytes, want %d", ErrKeyFormat, len(block), KeyBlockSize)
	}

	s := cryptobyte.String(block)
	var magic, size, x, y []byte
	if !s.ReadBytes(&magic, len(blobMagic)) ||
		!s.ReadBytes(&size, 4) ||
		!s.ReadBytes(&x, coordBytes) ||
		!s.ReadBytes(&y, coordBytes) {
		return nil, fmt.Errorf("%w: truncated blob", ErrKeyFormat)
	}
	if string(magic) != string(blobMagic) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrKeyFormat, magic)
	}
	if n := binary.LittleEndian.Uint32(size); n != coordBytes {
		return nil, fmt.Errorf("%w: key length %d, want %d", ErrKeyFormat, n, coordBytes)
	}
	for _, c := range s {
		if c != 0 {
			return nil, fmt.Errorf("%w: non-zero padding", ErrKeyFormat)
		}
	}

	point := make([]byte, 0, 1+2*coordBytes)
	point = append(point, pointPrefix)
	point = append(point, x...)
	point = append(point, y...)
	pub, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	return pub, nil
}
