package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint renders a secret as upper-case hex, the way the status pane
// displays it.
func Fingerprint(secret []byte) string {
	return strings.ToUpper(hex.EncodeToString(secret))
}

// ShortFingerprint returns the first 10 bytes of SHA-256(b) as hex. It is
// safe to print or log since it does not reveal b.
func ShortFingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:10])
}
