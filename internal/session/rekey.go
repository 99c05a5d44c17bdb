package session

import (
	"encoding/base64"
	"fmt"

	"github.com/sirupsen/logrus"

	"p2pmessenger/internal/crypto"
	"p2pmessenger/internal/logging"
	"p2pmessenger/internal/wire"
)

// checkRekey runs on every handler tick. It starts a rekey once the current
// secret is older than RekeyInterval, and fails the connection if a rekey it
// started stays unanswered past RekeyTimeout.
func (c *conn) checkRekey() error {
	now := c.clock.Now()

	c.mu.Lock()
	pending := c.pending != nil
	since := c.pendingSince
	due := now.Sub(c.lastRekey) > c.cfg.RekeyInterval
	c.mu.Unlock()

	if pending {
		if c.cfg.RekeyTimeout > 0 && now.Sub(since) > c.cfg.RekeyTimeout {
			return fmt.Errorf("rekey not answered within %s", c.cfg.RekeyTimeout)
		}
		return nil
	}
	if !due {
		return nil
	}
	return c.startRekey()
}

// startRekey offers a fresh public key. Sends wait until the answer arrives.
func (c *conn) startRekey() error {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	block := kp.PublicKeyBlock()

	c.writeMu.Lock()
	c.mu.Lock()
	c.pending = kp
	c.pendingSince = c.clock.Now()
	c.rekeyDone = make(chan struct{})
	c.mu.Unlock()
	_, err = c.nc.Write(wire.EncodeRekey(block[:]))
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send rekey offer: %w", err)
	}

	c.log.Info("rekey started")
	c.status(fmt.Sprintf("Rekey: sending %s public key: %s", c.role, base64.StdEncoding.EncodeToString(block[:])), nil, true)
	return nil
}

// answerRekey handles a rekey line from the peer. If this side has no offer
// outstanding it answers with one; either way it derives and installs the
// new secret.
func (c *conn) answerRekey(peerBlock []byte) error {
	c.mu.Lock()
	kp := c.pending
	c.mu.Unlock()
	c.log.WithFields(logging.SecretPreview("peer_key", peerBlock)).Debug("rekey line received")

	if kp != nil {
		c.status(fmt.Sprintf("Rekey: received %s public key: %s", c.role.PeerName(), base64.StdEncoding.EncodeToString(peerBlock)), nil, false)
		return c.finishRekey(kp, peerBlock)
	}

	c.status(fmt.Sprintf("Rekey: received %s public key: %s", c.role.PeerName(), base64.StdEncoding.EncodeToString(peerBlock)), nil, true)
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer kp.Wipe()
	block := kp.PublicKeyBlock()

	// The answer and the switch to the new secret happen under writeMu, so
	// no message under the old secret can follow our answer on the wire.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.nc.Write(wire.EncodeRekey(block[:])); err != nil {
		return fmt.Errorf("send rekey answer: %w", err)
	}
	c.status(fmt.Sprintf("Rekey: sending %s public key: %s", c.role, base64.StdEncoding.EncodeToString(block[:])), nil, false)
	return c.finishRekey(kp, peerBlock)
}

func (c *conn) finishRekey(kp *crypto.KeyPair, peerBlock []byte) error {
	secret, err := crypto.DeriveSharedSecret(kp, peerBlock)
	if err != nil {
		return fmt.Errorf("rekey: %w", err)
	}
	c.installSecret(secret)

	c.mu.Lock()
	c.rekeys++
	n := c.rekeys
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"secret_fp": crypto.ShortFingerprint(secret), "rekeys": n}).Info("rekey complete")
	c.status("Generated shared secret", secret, false)
	return nil
}
