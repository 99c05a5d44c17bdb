package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"p2pmessenger/internal/domain"
)

// Listener is the listening role. It binds a TCP port, serves one peer at a
// time and turns away concurrent connections while that peer is active.
type Listener struct {
	cfg  Config
	obs  domain.Observer
	opts options
	log  *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu     sync.Mutex
	ln     net.Listener
	active *conn
	closed bool
}

// NewListener prepares a listener. Nothing is bound until Start.
func NewListener(cfg Config, obs domain.Observer, opts ...Option) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = ObserverFuncs{}
	}
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		cfg:    cfg,
		obs:    obs,
		opts:   o,
		log:    o.log.WithFields(logrus.Fields{"component": "listener", "role": domain.RoleListener.String()}),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start binds cfg.ListenAddr and accepts connections in the background.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return net.ErrClosed
	}
	if l.ln != nil {
		return errors.New("listener already started")
	}
	ln, err := net.Listen("tcp", l.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.cfg.ListenAddr, err)
	}
	l.ln = ln
	l.log.WithField("addr", ln.Addr().String()).Info("listening")
	l.group.Go(func() error { return l.acceptLoop(ln) })
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

func (l *Listener) acceptLoop(ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || l.ctx.Err() != nil {
				return nil
			}
			l.log.WithError(err).Error("accept failed")
			return err
		}

		c, ok := l.claim(nc)
		if !ok {
			l.reject(nc)
			continue
		}
		l.group.Go(func() error {
			l.serve(c)
			return nil
		})
	}
}

// claim makes nc the active connection if the slot is free.
func (l *Listener) claim(nc net.Conn) (*conn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.active != nil {
		return nil, false
	}
	l.active = newConn(domain.RoleListener, nc, l.cfg, l.obs, l.opts)
	return l.active, true
}

func (l *Listener) release(c *conn) {
	l.mu.Lock()
	if l.active == c {
		l.active = nil
	}
	l.mu.Unlock()
}

func (l *Listener) reject(nc net.Conn) {
	remote := nc.RemoteAddr().String()
	_ = nc.Close()
	l.log.WithField("remote", remote).Warn("rejected connection: peer already active")
	l.obs.OnHandshakeStatus(domain.HandshakeStatus{
		Text: fmt.Sprintf("Rejected connection from %s: %v", remote, ErrPeerRejected),
	})
}

func (l *Listener) serve(c *conn) {
	defer l.release(c)
	c.log.Info("peer connected")
	if err := c.handshake(l.ctx); err != nil {
		c.close(err)
		return
	}
	c.run()
}

func (l *Listener) current() *conn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Send encrypts plaintext and sends it to the active peer.
func (l *Listener) Send(ctx context.Context, plaintext string) error {
	c := l.current()
	if c == nil {
		return ErrNotConnected
	}
	return c.Send(ctx, plaintext)
}

// State reports the state of the active connection. Without one it is
// StateUnconnected, or StateClosed once the listener is closed.
func (l *Listener) State() domain.State {
	l.mu.Lock()
	c, closed := l.active, l.closed
	l.mu.Unlock()
	switch {
	case c != nil:
		return c.State()
	case closed:
		return domain.StateClosed
	default:
		return domain.StateUnconnected
	}
}

// Close stops accepting, closes the active connection and waits for every
// goroutine to return.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	ln, c := l.ln, l.active
	l.mu.Unlock()

	l.cancel()
	var err error
	if ln != nil {
		err = ln.Close()
	}
	if c != nil {
		c.close(nil)
	}
	if werr := l.group.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}

var _ domain.Peer = (*Listener)(nil)
