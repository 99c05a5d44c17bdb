package types

import "fmt"

// Message is a chat line as seen by the UI, carrying both the wire
// ciphertext (base64) and the plaintext.
type Message struct {
	Ciphertext string
	Plaintext  string
}

// String renders the message the way the chat log shows it.
func (m Message) String() string {
	return fmt.Sprintf("\t[ CIPHERTEXT ] %s\n\t[ PLAINTEXT ] %s", m.Ciphertext, m.Plaintext)
}

// HandshakeStatus is one line of key-exchange progress.
//
// Reset asks the UI to replace the displayed status log rather than append
// to it; it is set on the first line of every exchange (initial or rekey).
// Secret is non-nil only on the line that announces a newly derived secret.
type HandshakeStatus struct {
	Text   string
	Secret []byte
	Reset  bool
}

// EventKind discriminates Event values.
type EventKind int

const (
	EventHandshakeStatus EventKind = iota + 1
	EventMessageSent
	EventMessageReceived
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventHandshakeStatus:
		return "handshake-status"
	case EventMessageSent:
		return "message-sent"
	case EventMessageReceived:
		return "message-received"
	default:
		return "unknown"
	}
}

// Event is the typed union delivered over notification channels.
// Exactly one of Status or Message is meaningful, selected by Kind.
type Event struct {
	Kind    EventKind
	Status  HandshakeStatus
	Message Message
}
