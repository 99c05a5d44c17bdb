package session

import "p2pmessenger/internal/domain"

// ObserverFuncs adapts plain functions to domain.Observer. Nil fields are
// skipped.
type ObserverFuncs struct {
	HandshakeStatus func(domain.HandshakeStatus)
	MessageSent     func(domain.Message)
	MessageReceived func(domain.Message)
}

func (f ObserverFuncs) OnHandshakeStatus(s domain.HandshakeStatus) {
	if f.HandshakeStatus != nil {
		f.HandshakeStatus(s)
	}
}

func (f ObserverFuncs) OnMessageSent(m domain.Message) {
	if f.MessageSent != nil {
		f.MessageSent(m)
	}
}

func (f ObserverFuncs) OnMessageReceived(m domain.Message) {
	if f.MessageReceived != nil {
		f.MessageReceived(m)
	}
}

// EventChannel delivers notifications as typed events on a channel. Sends
// block when the buffer is full, so the consumer must keep draining it for
// the session to make progress.
type EventChannel chan domain.Event

// NewEventChannel returns an EventChannel with the given buffer size.
func NewEventChannel(size int) EventChannel { return make(EventChannel, size) }

func (ch EventChannel) OnHandshakeStatus(s domain.HandshakeStatus) {
	ch <- domain.Event{Kind: domain.EventHandshakeStatus, Status: s}
}

func (ch EventChannel) OnMessageSent(m domain.Message) {
	ch <- domain.Event{Kind: domain.EventMessageSent, Message: m}
}

func (ch EventChannel) OnMessageReceived(m domain.Message) {
	ch <- domain.Event{Kind: domain.EventMessageReceived, Message: m}
}

var (
	_ domain.Observer = ObserverFuncs{}
	_ domain.Observer = EventChannel(nil)
)
