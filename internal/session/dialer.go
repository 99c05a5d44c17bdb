package session

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"p2pmessenger/internal/domain"
)

// Dialer is the dialing role. It connects to a listener, reads the
// listener's public key first and then answers with its own.
type Dialer struct {
	cfg  Config
	obs  domain.Observer
	opts options
	log  *logrus.Entry

	mu     sync.Mutex
	active *conn
	closed bool
	wg     sync.WaitGroup
}

// NewDialer prepares a dialer.
func NewDialer(cfg Config, obs domain.Observer, opts ...Option) (*Dialer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = ObserverFuncs{}
	}
	o := buildOptions(opts)
	return &Dialer{
		cfg:  cfg,
		obs:  obs,
		opts: o,
		log:  o.log.WithFields(logrus.Fields{"component": "dialer", "role": domain.RoleDialer.String()}),
	}, nil
}

// Connect dials address, performs the key exchange and starts the receive
// loop. It returns once the connection is established or has failed.
func (d *Dialer) Connect(ctx context.Context, address string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return net.ErrClosed
	}
	if d.active != nil && d.active.State() != domain.StateClosed {
		d.mu.Unlock()
		return ErrAlreadyConnected
	}
	d.mu.Unlock()

	var nd net.Dialer
	nc, err := nd.DialContext(ctx, "tcp", address)
	if err != nil {
		d.obs.OnHandshakeStatus(domain.HandshakeStatus{Text: fmt.Sprintf("Connection failed: %v", err), Reset: true})
		return fmt.Errorf("dial %s: %w", address, err)
	}
	d.log.WithField("remote", address).Info("connected")

	c := newConn(domain.RoleDialer, nc, d.cfg, d.obs, d.opts)
	d.mu.Lock()
	switch {
	case d.closed:
		d.mu.Unlock()
		_ = nc.Close()
		return net.ErrClosed
	case d.active != nil && d.active.State() != domain.StateClosed:
		d.mu.Unlock()
		_ = nc.Close()
		return ErrAlreadyConnected
	}
	d.active = c
	d.mu.Unlock()

	if err := c.handshake(ctx); err != nil {
		c.close(err)
		return err
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		c.close(nil)
		return net.ErrClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		c.run()
	}()
	return nil
}

func (d *Dialer) current() *conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Send encrypts plaintext and sends it to the listener.
func (d *Dialer) Send(ctx context.Context, plaintext string) error {
	c := d.current()
	if c == nil {
		return ErrNotConnected
	}
	return c.Send(ctx, plaintext)
}

// State reports the state of the current connection.
func (d *Dialer) State() domain.State {
	d.mu.Lock()
	c, closed := d.active, d.closed
	d.mu.Unlock()
	switch {
	case c != nil:
		return c.State()
	case closed:
		return domain.StateClosed
	default:
		return domain.StateUnconnected
	}
}

// Done is closed when the current connection terminates. It returns nil
// before Connect.
func (d *Dialer) Done() <-chan struct{} {
	if c := d.current(); c != nil {
		return c.Done()
	}
	return nil
}

// Err returns why the current connection failed, or nil while it is open,
// after a clean close or before Connect.
func (d *Dialer) Err() error {
	if c := d.current(); c != nil {
		return c.Err()
	}
	return nil
}

// Close closes the connection and waits for the receive loop to return.
func (d *Dialer) Close() error {
	d.mu.Lock()
	d.closed = true
	c := d.active
	d.mu.Unlock()
	if c != nil {
		c.close(nil)
	}
	d.wg.Wait()
	return nil
}

var _ domain.Peer = (*Dialer)(nil)
