package interfaces

import (
	"context"

	domaintypes "p2pmessenger/internal/domain/types"
)

// Peer is the control surface a UI drives once a role has been started.
type Peer interface {
	// Send encrypts plaintext under the current shared secret and writes it
	// to the established connection.
	Send(ctx context.Context, plaintext string) error
	// State reports the lifecycle state of the active connection.
	State() domaintypes.State
	// Close tears down the connection (and listening socket, if any).
	Close() error
}
