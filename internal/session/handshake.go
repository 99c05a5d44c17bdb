package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"p2pmessenger/internal/crypto"
	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/logging"
	"p2pmessenger/internal/wire"
)

// handshake performs the initial raw key block exchange. The listener
// writes its block first and then reads; the dialer reads first and then
// writes.
func (c *conn) handshake(ctx context.Context) error {
	// Socket deadlines are wall-clock times; c.clock only drives rekeying.
	if c.cfg.HandshakeTimeout > 0 {
		_ = c.nc.SetDeadline(time.Now().Add(c.cfg.HandshakeTimeout))
		defer func() { _ = c.nc.SetDeadline(time.Time{}) }()
	}
	// A cancelled ctx unblocks pending I/O by expiring the deadline.
	stop := context.AfterFunc(ctx, func() { _ = c.nc.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer kp.Wipe()
	own := kp.PublicKeyBlock()

	var peer []byte
	if c.role == domain.RoleListener {
		if err := c.sendKeyBlock(own[:], true); err != nil {
			return err
		}
		if peer, err = c.receiveKeyBlock(false); err != nil {
			return c.handshakeErr(ctx, err)
		}
	} else {
		if peer, err = c.receiveKeyBlock(true); err != nil {
			return c.handshakeErr(ctx, err)
		}
		if err := c.sendKeyBlock(own[:], false); err != nil {
			return err
		}
	}

	secret, err := crypto.DeriveSharedSecret(kp, peer)
	if err != nil {
		return err
	}
	c.installSecret(secret)
	c.log.WithField("secret_fp", crypto.ShortFingerprint(secret)).Info("handshake complete")
	c.status("Generated shared secret", secret, false)
	return nil
}

func (c *conn) sendKeyBlock(block []byte, reset bool) error {
	c.writeMu.Lock()
	err := wire.WriteKeyBlock(c.nc, block)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send public key: %w", err)
	}
	c.status(fmt.Sprintf("Sending %s public key: %s", c.role, base64.StdEncoding.EncodeToString(block)), nil, reset)
	return nil
}

func (c *conn) receiveKeyBlock(reset bool) ([]byte, error) {
	block, err := c.rd.ReadKeyBlock()
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logging.SecretPreview("peer_key", block)).Debug("received public key")
	c.status(fmt.Sprintf("Received %s public key: %s", c.role.PeerName(), base64.StdEncoding.EncodeToString(block)), nil, reset)
	return block, nil
}

// handshakeErr maps a failed key block read. A block cut short by the end of
// the stream is a key format error; cancellation is reported as such.
func (c *conn) handshakeErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("handshake: %w", ctx.Err())
	}
	if errors.Is(err, wire.ErrShortKeyBlock) {
		return fmt.Errorf("%w: %w", crypto.ErrKeyFormat, err)
	}
	return fmt.Errorf("handshake: %w", err)
}
