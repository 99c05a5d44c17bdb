package domain

import (
	interfaces "p2pmessenger/internal/domain/interfaces"
	types "p2pmessenger/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Role            = types.Role
	ConnID          = types.ConnID
	State           = types.State
	Message         = types.Message
	HandshakeStatus = types.HandshakeStatus
	EventKind       = types.EventKind
	Event           = types.Event
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Observer = interfaces.Observer
	Peer     = interfaces.Peer
)

const (
	RoleListener = types.RoleListener
	RoleDialer   = types.RoleDialer

	StateUnconnected      = types.StateUnconnected
	StateHandshakePending = types.StateHandshakePending
	StateEstablished      = types.StateEstablished
	StateClosed           = types.StateClosed

	EventHandshakeStatus = types.EventHandshakeStatus
	EventMessageSent     = types.EventMessageSent
	EventMessageReceived = types.EventMessageReceived
)
