// Package layered implements the two-layer message cipher used once a shared
// secret has been agreed.
//
// # Construction
//
// For every message a fresh 8-byte nonce is drawn and two key/IV pairs are
// derived from HMAC-SHA256 keyed with secret‖nonce:
//
//	aesKey = HMAC(secret‖nonce, "Key Derivation")[:32]
//	aesIV  = HMAC(secret‖nonce, "IV Derivation")[:16]
//	desKey = HMAC(secret‖nonce, "Key Derivation")[:24]
//	desIV  = HMAC(secret‖nonce, "IV Derivation")[:8]
//
// Encryption then runs AES-256-CBC, XOR with HMAC(aesKey, "XOR sequence"),
// 3DES-CBC, XOR with HMAC(desKey, "XOR sequence"), and prepends the nonce.
// Both block layers use PKCS#7 padding. Decryption is the exact inverse.
//
// # Nonces
//
// A nonce is the little-endian count of 100 ns ticks since 0001-01-01 UTC.
// NonceSource never hands out the same value twice in a process, even when
// the wall clock does not advance between calls.
//
// # Security notes
//
// There is no MAC. A modified ciphertext is detected only when it breaks the
// padding of either layer or yields invalid UTF-8; otherwise it decrypts to
// different text. Callers must not treat a successful Decrypt as proof of
// integrity.
package layered
