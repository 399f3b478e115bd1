// Package seekbuf provides an in-memory buffer that supports seeking, used
// to stage matrix elements before they are written to the sink in one call.
package seekbuf

import (
	"errors"
	"io"
)

// ErrNegativePosition is returned when a seek would move before the start.
var ErrNegativePosition = errors.New("seekbuf: negative position")

// Buffer implements io.Writer, io.Seeker and io.Reader on a byte slice.
// Writing past the end grows the buffer; writing after a backward seek
// overwrites in place.
type Buffer struct {
	buf []byte
	pos int64
}

// New creates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (n int, err error) {
	end := int(b.pos) + len(p)
	oldLen := len(b.buf)
	if end > cap(b.buf) {
		newCap := cap(b.buf) * 2
		if newCap < end {
			newCap = end
		}
		grown := make([]byte, len(b.buf), newCap)
		copy(grown, b.buf)
		b.buf = grown
	}
	if end > len(b.buf) {
		b.buf = b.buf[:end]
		if int(b.pos) > oldLen {
			clear(b.buf[oldLen:b.pos])
		}
	}
	n = copy(b.buf[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("seekbuf: invalid whence")
	}
	if pos < 0 {
		return 0, ErrNegativePosition
	}
	b.pos = pos
	return pos, nil
}

// Read implements io.Reader.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.pos >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n = copy(p, b.buf[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// Bytes returns the buffered bytes. The slice is valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Reset empties the buffer but keeps its capacity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.pos = 0
}
