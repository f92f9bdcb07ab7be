// Package coretest provides in-memory fakes of core transport interfaces.
package coretest

import (
	"sync"

	"github.com/dkeye/Pot/internal/core"
)

// Conn is a core.SignalConnection that records every frame it accepts.
type Conn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func NewConn(id string) *Conn { return &Conn{id: core.ConnID(id)} }

func (c *Conn) ID() core.ConnID { return c.id }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SetFull makes TrySend report back-pressure until reset.
func (c *Conn) SetFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

// Texts returns the received frames as strings.
func (c *Conn) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, string(f))
	}
	return out
}

// Reset forgets the frames received so far.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// TextEncoder encodes a notice as its raw text.
type TextEncoder struct{}

func (TextEncoder) EncodeNotice(text string) (core.Frame, error) { return core.Frame(text), nil }
