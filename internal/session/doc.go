// Package session runs the two peer roles of the messenger over TCP.
//
// # Roles
//
// A Listener binds a port and accepts connections; a Dialer connects out.
// Each role owns at most one active connection. A Listener that already has
// an active peer accepts further connections only to report and close them.
//
// # Connection lifecycle
//
//	Unconnected → HandshakePending → Established → Closed
//
// On a new stream the peers swap raw 256-byte public key blocks (listener
// first, then dialer) and both derive the same shared secret. From then on a
// single handler goroutine owns the read side of the stream: a reader
// goroutine turns lines into frames, and the handler selects between frames
// and a poll ticker. Every tick checks the rekey timer.
//
// # Rekeying
//
// Once RekeyInterval has elapsed since the last exchange, a side generates a
// new key pair, writes a rekey line and waits for the peer's answer. The peer
// answers with its own rekey line and installs the new secret immediately;
// the initiator installs it when the answer arrives. If both sides start at
// the same time each treats the other's line as the answer, and both derive
// the same secret.
//
// Send holds the write lock while it encrypts, and waits while a rekey it
// started is unanswered. As a result every message written after a side's
// rekey line is under the new secret, and a reader switches secrets exactly
// at the peer's rekey line.
//
// # Errors
//
// A malformed or undecryptable line is dropped and reported through the
// Observer; the connection carries on. A bad public key, a short key block,
// an I/O error or the end of the stream closes the connection. There is no
// automatic reconnect.
package session
