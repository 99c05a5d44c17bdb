// Package crypto implements the key agreement used by the messenger.
//
// Contents
//
//   - Ephemeral NIST P-256 key pairs (GenerateKeyPair)
//   - The 256-byte public key block exchanged on the wire (KeyPair.PublicKeyBlock,
//     ParsePublicKeyBlock)
//   - Shared-secret derivation: ECDH followed by SHA-256 over the raw
//     x-coordinate (DeriveSharedSecret)
//   - Hex fingerprints of secrets for display (Fingerprint)
//
// # Key block layout
//
// The block carries the public point in the Windows CNG ECCPUBLIC blob layout
// and is zero-padded to KeyBlockSize bytes:
//
//	offset  size  field
//	0       4     magic "ECK1"
//	4       4     key length in bytes, little-endian (32)
//	8       32    X coordinate, big-endian
//	40      32    Y coordinate, big-endian
//	72      184   zero padding
//
// Any other content (wrong magic or length, non-zero padding, a point that is
// not on the curve) is rejected with ErrKeyFormat.
//
// # Notes
//
// Key pairs are single-use: a session generates a fresh pair for the initial
// handshake and for every rekey, and drops it once the secret is derived.
// Callers own the returned secret slices and should wipe them with
// internal/util/memzero when they are superseded.
package crypto
