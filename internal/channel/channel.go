// Package channel provides generic channel interfaces for decoupled
// communication. The websocket backend uses them for its outbound frame and
// ack plumbing; the debug build swaps in unbuffered channels so tests can
// observe every handoff.
package channel

// Receiver provides read access to a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel.
type Sender[T any] interface {
	Send(T)
	// TrySend attempts a non-blocking send, reporting whether the value
	// was accepted.
	TrySend(T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}
