package layered

import (
	"encoding/binary"
	"sync"
	"time"
)

// NonceBytes is the size of the per-message nonce.
const NonceBytes = 8

// ticksAtUnixEpoch is the number of 100 ns ticks between 0001-01-01 and
// 1970-01-01.
const ticksAtUnixEpoch = 621355968000000000

// Ticks converts t to 100 ns ticks since 0001-01-01 UTC.
func Ticks(t time.Time) int64 {
	return t.UnixNano()/100 + ticksAtUnixEpoch
}

// NonceSource produces strictly increasing timestamp nonces.
type NonceSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewNonceSource returns a source reading the clock from now. A nil now uses
// time.Now.
func NewNonceSource(now func() time.Time) *NonceSource {
	if now == nil {
		now = time.Now
	}
	return &NonceSource{now: now}
}

// Next returns the next nonce.
func (s *NonceSource) Next() [NonceBytes]byte {
	s.mu.Lock()
	t := Ticks(s.now().UTC())
	if t <= s.last {
		t = s.last + 1
	}
	s.last = t
	s.mu.Unlock()

	var out [NonceBytes]byte
	binary.LittleEndian.PutUint64(out[:], uint64(t))
	return out
}
