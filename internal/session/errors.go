package session

import "errors"

var (
	// ErrNotConnected is returned by Send when no established connection
	// exists.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Dialer.Connect while a connection is
	// still active.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrRekeyTimeout is returned by Send when a rekey started by this side
	// was not answered in time.
	ErrRekeyTimeout = errors.New("timed out waiting for rekey to complete")
	// ErrPeerRejected is reported for connections turned away because the
	// listener already has an active peer.
	ErrPeerRejected = errors.New("listener already has an active peer")
)
