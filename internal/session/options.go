package session

import (
	"time"

	"github.com/sirupsen/logrus"

	"p2pmessenger/internal/logging"
	"p2pmessenger/internal/protocol/layered"
)

// Clock abstracts time for the rekey timer. Implementations must be safe for
// concurrent use.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type options struct {
	log    *logrus.Logger
	clock  Clock
	cipher *layered.Cipher
}

// Option customises a Listener or Dialer.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock sets the clock used by the rekey timer.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithCipher sets the message cipher, typically to control nonces in tests.
func WithCipher(c *layered.Cipher) Option {
	return func(o *options) {
		if c != nil {
			o.cipher = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		log:   logging.Discard(),
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cipher == nil {
		o.cipher = layered.New(layered.NewNonceSource(o.clock.Now))
	}
	return o
}
