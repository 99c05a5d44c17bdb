package interfaces

import domaintypes "p2pmessenger/internal/domain/types"

// Observer receives notifications from a peer session. Implementations are
// called from session goroutines and must not block for long.
type Observer interface {
	OnHandshakeStatus(status domaintypes.HandshakeStatus)
	OnMessageSent(msg domaintypes.Message)
	OnMessageReceived(msg domaintypes.Message)
}
