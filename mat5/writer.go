package mat5

import (
	"encoding/binary"
	"io"
	"math"
)

var zeros [Alignment]byte

// Writer writes little-endian scalars to a seekable sink and keeps track of
// the absolute file offset.
//
// Write methods return the number of bytes the value occupies regardless of
// the outcome. The first sink error is kept and returned by Err; once an
// error occurred every following write or seek is skipped.
type Writer struct {
	ws   io.WriteSeeker
	base int64
	pos  int64
	err  error
	buf  [8]byte
}

// NewWriter returns a Writer on ws. base is the absolute file offset that
// corresponds to the current position of ws; it is zero when ws is the file
// itself and the file offset of the first staged byte when ws is a staging
// buffer.
func NewWriter(ws io.WriteSeeker, base int64) *Writer {
	return &Writer{ws: ws, base: base}
}

// Reset retargets the writer and clears a previous error.
func (w *Writer) Reset(ws io.WriteSeeker, base int64) {
	w.ws = ws
	w.base = base
	w.pos = 0
	w.err = nil
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Offset returns the absolute offset of the next byte.
func (w *Writer) Offset() int64 { return w.base + w.pos }

func (w *Writer) write(p []byte) int {
	if w.err != nil {
		return len(p)
	}
	n, err := w.ws.Write(p)
	w.pos += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = err
	}
	return len(p)
}

// seek moves the position relative to the current one.
func (w *Writer) seek(delta int64) {
	if w.err != nil || delta == 0 {
		return
	}
	if _, err := w.ws.Seek(delta, io.SeekCurrent); err != nil {
		w.err = err
		return
	}
	w.pos += delta
}

// WriteUint16 writes v and returns 2.
func (w *Writer) WriteUint16(v uint16) int {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	return w.write(w.buf[:2])
}

// WriteUint32 writes v and returns 4.
func (w *Writer) WriteUint32(v uint32) int {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	return w.write(w.buf[:4])
}

// WriteFloat64 writes v as an IEEE 754 double and returns 8.
func (w *Writer) WriteFloat64(v float64) int {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	return w.write(w.buf[:8])
}

// WriteBytes writes p verbatim and returns len(p).
func (w *Writer) WriteBytes(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	return w.write(p)
}

// Pad writes zero bytes up to the next 8-byte boundary of the absolute
// offset and returns the number of bytes written.
func (w *Writer) Pad() int {
	r := int(w.Offset() % Alignment)
	if r == 0 {
		return 0
	}
	return w.write(zeros[:Alignment-r])
}

// PatchUint32At overwrites the 4 bytes at absolute offset at with v and
// returns to the current position.
func (w *Writer) PatchUint32At(at int64, v uint32) {
	back := w.Offset() - at
	w.seek(-back)
	w.WriteUint32(v)
	w.seek(back - 4)
}

// BeginElement writes a matrix tag with a zero size placeholder.
func (w *Writer) BeginElement() {
	w.WriteUint32(TypeMatrix)
	w.WriteUint32(0)
}

// EndElement backpatches the size field of the element started by the
// matching BeginElement. r is the number of body bytes written since the
// size field. The writer seeks back r+4 bytes, rewrites the field and seeks
// forward r bytes to the end of the element again.
func (w *Writer) EndElement(r int) {
	w.seek(-int64(r + 4))
	w.WriteUint32(uint32(r))
	w.seek(int64(r))
}
