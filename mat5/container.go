package mat5

import (
	"bytes"
	"fmt"
	"runtime"
)

// DefaultDescription is the header text used when none is configured.
var DefaultDescription = fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: %s/%s, Created by: fvecmat (Output module for Matlab format (v5))", runtime.GOOS, runtime.GOARCH)

// Layout records where the summary fields of the outer cell array ended up.
type Layout struct {
	// BytesField is the absolute offset of the outer element's size field.
	BytesField int64
	// CountField is the absolute offset of the column count in the outer dims.
	CountField int64
	// HeaderBytes is the number of outer element body bytes written by
	// WriteCellHeader. It seeds the running payload total.
	HeaderBytes int
}

// Fixed reports whether the layout matches the historic fixed offsets.
func (l Layout) Fixed() bool {
	return l.BytesField == BytesFieldOffset && l.CountField == CountFieldOffset
}

// WritePreamble writes the 128-byte file header: text padded with spaces to
// 124 bytes, the version and the endian marker. Text longer than 124 bytes is
// not truncated; the resulting size mismatch is reported as ErrHeaderSize.
func WritePreamble(w *Writer, text string) (int, error) {
	b := []byte(text)
	if len(b) < HeaderTextSize {
		b = append(b, bytes.Repeat([]byte{' '}, HeaderTextSize-len(b))...)
	}
	r := w.WriteBytes(b)
	r += w.WriteUint16(Version)
	r += w.WriteUint16(EndianMarker)

	if err := w.Err(); err != nil {
		return r, err
	}
	if r != PreambleSize {
		return r, fmt.Errorf("%w: got %d", ErrHeaderSize, r)
	}
	return r, nil
}

// WriteCellHeader starts the outer 2 x 0 cell array named "data". The size
// field and the column count are placeholders; their offsets are returned
// so a session can patch them once all elements are written.
func WriteCellHeader(w *Writer) (Layout, error) {
	var l Layout

	w.WriteUint32(TypeMatrix)
	l.BytesField = w.Offset()
	w.WriteUint32(0)

	r := WriteArrayFlags(w, 0, ClassCell, 0)
	// type, size and rows precede the column count
	l.CountField = w.Offset() + 12
	r += WriteArrayDims(w, 2, 0)
	r += WriteArrayName(w, NameData)
	l.HeaderBytes = r

	return l, w.Err()
}
