package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"p2pmessenger/internal/crypto"
	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/protocol/layered"
	"p2pmessenger/internal/util/memzero"
	"p2pmessenger/internal/wire"
)

// conn is the handler for one TCP stream. The handler goroutine (run) is the
// only reader; writes from run and from Send are serialised by writeMu.
type conn struct {
	id     domain.ConnID
	role   domain.Role
	nc     net.Conn
	rd     *wire.Reader
	cfg    Config
	obs    domain.Observer
	log    *logrus.Entry
	clock  Clock
	cipher *layered.Cipher

	// writeMu is held for every write to nc, and across encrypt+write in
	// Send so that a rekey line cannot slip between the two.
	writeMu sync.Mutex

	mu           sync.Mutex
	state        domain.State
	secret       []byte
	lastRekey    time.Time
	pending      *crypto.KeyPair
	pendingSince time.Time
	// rekeyDone is non-nil while a rekey started by this side is
	// unanswered, and is closed when it resolves.
	rekeyDone chan struct{}
	rekeys    int

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newConn(role domain.Role, nc net.Conn, cfg Config, obs domain.Observer, o options) *conn {
	id := domain.ConnID(uuid.NewString())
	return &conn{
		id:     id,
		role:   role,
		nc:     nc,
		rd:     wire.NewReader(nc),
		cfg:    cfg,
		obs:    obs,
		clock:  o.clock,
		cipher: o.cipher,
		log: o.log.WithFields(logrus.Fields{
			"component": "session",
			"role":      role.String(),
			"conn_id":   id.String(),
			"remote":    nc.RemoteAddr().String(),
		}),
		state: domain.StateHandshakePending,
		done:  make(chan struct{}),
	}
}

// State reports the connection state.
func (c *conn) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the connection has terminated.
func (c *conn) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection terminated, or nil while it is open
// or after a clean close.
func (c *conn) Err() error {
	select {
	case <-c.done:
		return c.closeErr
	default:
		return nil
	}
}

func (c *conn) sharedSecret() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.secret...)
}

// installSecret replaces the shared secret, wipes the old one and resets the
// rekey timer. It resolves a pending rekey, if any.
func (c *conn) installSecret(secret []byte) {
	c.mu.Lock()
	old := c.secret
	c.secret = secret
	c.lastRekey = c.clock.Now()
	c.state = domain.StateEstablished
	if c.pending != nil {
		c.pending.Wipe()
		c.pending = nil
	}
	if c.rekeyDone != nil {
		close(c.rekeyDone)
		c.rekeyDone = nil
	}
	c.mu.Unlock()
	memzero.Zero(old)
}

func (c *conn) status(text string, secret []byte, reset bool) {
	var s []byte
	if secret != nil {
		s = append([]byte(nil), secret...)
	}
	c.obs.OnHandshakeStatus(domain.HandshakeStatus{Text: text, Secret: s, Reset: reset})
}

// Send encrypts plaintext and writes it as one message line.
func (c *conn) Send(ctx context.Context, plaintext string) error {
	var expired <-chan time.Time
	if c.cfg.RekeyTimeout > 0 {
		t := time.NewTimer(c.cfg.RekeyTimeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		c.mu.Lock()
		state, wait := c.state, c.rekeyDone
		c.mu.Unlock()
		if state != domain.StateEstablished {
			return ErrNotConnected
		}
		if wait != nil {
			select {
			case <-wait:
				continue
			case <-c.done:
				return ErrNotConnected
			case <-ctx.Done():
				return ctx.Err()
			case <-expired:
				return ErrRekeyTimeout
			}
		}

		c.writeMu.Lock()
		c.mu.Lock()
		if c.rekeyDone != nil || c.state != domain.StateEstablished {
			c.mu.Unlock()
			c.writeMu.Unlock()
			continue
		}
		secret := append([]byte(nil), c.secret...)
		c.mu.Unlock()

		payload, err := c.cipher.Encrypt(plaintext, secret)
		memzero.Zero(secret)
		if err != nil {
			c.writeMu.Unlock()
			return fmt.Errorf("encrypt message: %w", err)
		}
		text, line := wire.EncodeMessage(payload)
		_, err = c.nc.Write(line)
		c.writeMu.Unlock()
		if err != nil {
			c.close(fmt.Errorf("write message: %w", err))
			return fmt.Errorf("%w: %v", ErrNotConnected, err)
		}

		c.log.WithField("bytes", len(payload)).Debug("message sent")
		c.obs.OnMessageSent(domain.Message{Ciphertext: text, Plaintext: plaintext})
		return nil
	}
}

type frameResult struct {
	frame wire.Frame
	err   error
}

// run is the handler loop. It returns once the connection has closed.
func (c *conn) run() {
	frames := make(chan frameResult)
	go c.readLoop(frames)

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.checkRekey(); err != nil {
				c.close(err)
				return
			}
		case fr := <-frames:
			if fr.err != nil {
				if errors.Is(fr.err, wire.ErrMalformedFrame) {
					c.log.WithError(fr.err).Warn("dropping malformed line")
					c.status("Dropped malformed message line", nil, false)
					continue
				}
				c.close(fr.err)
				return
			}
			if err := c.handleFrame(fr.frame); err != nil {
				c.close(err)
				return
			}
		}
	}
}

func (c *conn) readLoop(out chan<- frameResult) {
	for {
		f, err := c.rd.ReadFrame()
		select {
		case out <- frameResult{frame: f, err: err}:
		case <-c.done:
			return
		}
		if err != nil && !errors.Is(err, wire.ErrMalformedFrame) {
			return
		}
	}
}

func (c *conn) handleFrame(f wire.Frame) error {
	switch f.Kind {
	case wire.FrameRekey:
		return c.answerRekey(f.Payload)
	case wire.FrameMessage:
		c.receiveMessage(f)
		return nil
	default:
		return fmt.Errorf("unexpected frame kind %v", f.Kind)
	}
}

func (c *conn) receiveMessage(f wire.Frame) {
	secret := c.sharedSecret()
	plain, err := c.cipher.Decrypt(f.Payload, secret)
	memzero.Zero(secret)
	if err != nil {
		c.log.WithError(err).Warn("dropping undecryptable message")
		c.status("Dropped message that failed to decrypt", nil, false)
		return
	}
	c.log.WithField("bytes", len(f.Payload)).Debug("message received")
	c.obs.OnMessageReceived(domain.Message{Ciphertext: f.Text, Plaintext: plain})
}

// close terminates the connection once. A nil cause, io.EOF or a closed
// socket count as a clean close.
func (c *conn) close(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = domain.StateClosed
		secret := c.secret
		c.secret = nil
		if c.pending != nil {
			c.pending.Wipe()
			c.pending = nil
		}
		c.mu.Unlock()

		clean := cause == nil || errors.Is(cause, io.EOF) || errors.Is(cause, net.ErrClosed)
		if !clean {
			c.closeErr = cause
		}
		close(c.done)
		_ = c.nc.Close()
		memzero.Zero(secret)

		if clean {
			c.log.Info("connection closed")
			c.status("Connection closed", nil, false)
			return
		}
		c.log.WithError(cause).Warn("connection failed")
		c.status(fmt.Sprintf("Connection failed: %v", cause), nil, false)
	})
}
