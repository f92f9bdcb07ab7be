package core

// Frame is one encoded outbound message.
type Frame []byte

// ConnID identifies one transport connection for its whole lifetime.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	ID() ConnID
	// TrySend never blocks. It returns ErrConnClosed after Close and
	// ErrBackpressure when the outbound buffer is full.
	TrySend(Frame) error
	Close()
	IsClosed() bool
}
