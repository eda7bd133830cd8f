package touch

import "sync/atomic"

const fresh = 4

// Cell passes Frames from one writer goroutine to one reader goroutine. It is
// a triple buffer: the writer fills its back buffer and swaps it with the
// middle one, the reader swaps the middle buffer into the front when it is
// newer. Each side does a single atomic swap and never waits for the other,
// and a reader always sees a whole frame from a single Publish.
type Cell struct {
	buf   [3]Frame
	mid   atomic.Uint32 // index of the middle buffer, | fresh when unread
	back  uint32        // owned by the writer
	front uint32        // owned by the reader
}

func NewCell() *Cell {
	c := &Cell{back: 0, front: 1}
	c.mid.Store(2)
	return c
}

// Publish makes f the latest frame. Only one goroutine may call Publish.
func (c *Cell) Publish(f Frame) {
	c.buf[c.back] = f
	c.back = c.mid.Swap(c.back|fresh) &^ fresh
}

// Load returns the latest published frame, or the zero Frame before the first
// Publish. Only one goroutine may call Load.
func (c *Cell) Load() Frame {
	if c.mid.Load()&fresh != 0 {
		c.front = c.mid.Swap(c.front) &^ fresh
	}
	return c.buf[c.front]
}
