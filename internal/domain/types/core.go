package types

// Role names which end of the TCP connection a peer session plays.
type Role string

const (
	// RoleListener binds a port and sends its public key first.
	RoleListener Role = "listener"
	// RoleDialer connects out and reads the listener's public key first.
	RoleDialer Role = "dialer"
)

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// PeerName returns the display name of the remote end for this role.
func (r Role) PeerName() string {
	if r == RoleListener {
		return "dialer"
	}
	return "listener"
}

// ConnID identifies one accepted or dialed connection in logs.
type ConnID string

// String returns the string form of the connection identifier.
func (id ConnID) String() string { return string(id) }
