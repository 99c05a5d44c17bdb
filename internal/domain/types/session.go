package types

// State is the lifecycle position of a single connection.
type State int

const (
	// StateUnconnected means no stream is attached yet.
	StateUnconnected State = iota
	// StateHandshakePending means a stream exists but no shared secret has
	// been agreed on it.
	StateHandshakePending
	// StateEstablished means a shared secret is installed and messages flow.
	StateEstablished
	// StateClosed means the stream ended; the session cannot be reused.
	StateClosed
)

// String returns a lower-case name for the state.
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateHandshakePending:
		return "handshake-pending"
	case StateEstablished:
		return "established"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
