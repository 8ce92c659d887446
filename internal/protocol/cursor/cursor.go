// Package cursor provides a bounded forward-reading view over a byte source.
package cursor

import (
	"errors"
	"io"

	"github.com/danmuck/ktrdump/internal/protocol"
)

// Look-ahead buffers larger than this are released once drained so that one
// oversized record does not pin its memory for the rest of the stream.
const maxRetainedBuffer = 64 * 1024

// Cursor reads forward from an io.Reader. It only pulls as many bytes from
// the source as Peek or Take request, so buffered look-ahead never exceeds
// the largest single request.
type Cursor struct {
	r   io.Reader
	buf []byte
	off int64
	err error
}

func New(r io.Reader) *Cursor {
	return &Cursor{r: r}
}

// Reset discards buffered bytes and starts reading from r at offset 0.
func (c *Cursor) Reset(r io.Reader) {
	c.r, c.buf, c.off, c.err = r, nil, 0, nil
}

// Offset is the absolute position of the next unread byte.
func (c *Cursor) Offset() int64 {
	return c.off
}

// Buffered reports the look-ahead bytes held but not yet taken.
func (c *Cursor) Buffered() int {
	return len(c.buf)
}

// fill reads from the source until n bytes are buffered or the source fails.
func (c *Cursor) fill(n int) error {
	if len(c.buf) >= n {
		return nil
	}
	if c.err != nil {
		return c.err
	}
	have := len(c.buf)
	if cap(c.buf) < n {
		grown := make([]byte, have, n)
		copy(grown, c.buf)
		c.buf = grown
	}
	got, err := io.ReadFull(c.r, c.buf[have:n])
	c.buf = c.buf[:have+got]
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		c.err = err
		return err
	}
	return nil
}

func (c *Cursor) classify(err error, n int) error {
	if errors.Is(err, io.EOF) {
		return protocol.Truncated(c.off, "need %d bytes, have %d", n, len(c.buf))
	}
	return protocol.IOFailure(c.off+int64(len(c.buf)), err)
}

// Peek returns up to n bytes at the current offset without advancing. The
// returned slice is only valid until the next call on c. When fewer than n
// bytes remain the available bytes are returned with a Truncated error.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if err := c.fill(n); err != nil {
		return c.buf, c.classify(err, n)
	}
	return c.buf[:n], nil
}

// Take returns a copy of the next n bytes and advances past them. On
// failure nothing is consumed.
func (c *Cursor) Take(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return append([]byte(nil), b...), err
	}
	out := make([]byte, n)
	copy(out, b)
	c.advance(n)
	return out, nil
}

// Skip advances past n bytes, discarding them without buffering.
func (c *Cursor) Skip(n int64) error {
	if n <= int64(len(c.buf)) {
		c.advance(int(n))
		return nil
	}
	rest := n - int64(len(c.buf))
	c.advance(len(c.buf))
	if c.err != nil {
		return c.classify(c.err, int(rest))
	}
	got, err := io.CopyN(io.Discard, c.r, rest)
	c.off += got
	if err != nil {
		c.err = err
		if errors.Is(err, io.EOF) {
			return protocol.Truncated(c.off, "skip needs %d more bytes", rest-got)
		}
		return protocol.IOFailure(c.off, err)
	}
	return nil
}

// AtEnd reports whether the source is exhausted with nothing buffered.
func (c *Cursor) AtEnd() (bool, error) {
	if len(c.buf) > 0 {
		return false, nil
	}
	err := c.fill(1)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, io.EOF):
		return true, nil
	default:
		return false, c.classify(err, 1)
	}
}

func (c *Cursor) advance(n int) {
	c.buf = c.buf[n:]
	c.off += int64(n)
	if len(c.buf) == 0 {
		if cap(c.buf) > maxRetainedBuffer {
			c.buf = nil
		} else {
			c.buf = c.buf[:0:cap(c.buf)]
		}
	}
}
