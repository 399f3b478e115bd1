package featmap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic   = "FMAP"
	version = uint16(1)

	fileHeaderSize = 16
	// maxFeatureLen bounds a single entry when loading untrusted input.
	maxFeatureLen = 1 << 24
)

// Save writes all entries to w, ascending by hash.
func (m *Map) Save(w io.Writer, c Compression) error {
	if c > CompressionZSTD {
		return fmt.Errorf("featmap: unknown compression %d", c)
	}

	entries := m.Entries()

	var hdr [fileHeaderSize]byte
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint16(hdr[4:], version)
	hdr[6] = byte(c)
	binary.LittleEndian.PutUint64(hdr[8:], uint64(len(entries)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	bw := newBlockWriter(w, c, defaultBlockSize)
	var rec [12]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint64(rec[0:], e.Hash)
		binary.LittleEndian.PutUint32(rec[8:], uint32(len(e.Data)))
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
		if _, err := bw.Write(e.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a map written by Save.
func Load(r io.Reader) (*Map, error) {
	var hdr [fileHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if string(hdr[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[0:4])
	}
	if v := binary.LittleEndian.Uint16(hdr[4:]); v != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	c := Compression(hdr[6])
	if c > CompressionZSTD {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, c)
	}
	count := binary.LittleEndian.Uint64(hdr[8:])

	br := bufio.NewReader(&blockReader{r: r, compression: c})
	m := New()

	var rec [12]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return nil, truncated(i, err)
		}
		h := binary.LittleEndian.Uint64(rec[0:])
		n := binary.LittleEndian.Uint32(rec[8:])
		if n > maxFeatureLen {
			return nil, fmt.Errorf("%w: entry %d has length %d", ErrCorrupt, i, n)
		}

		data := make([]byte, n)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, truncated(i, err)
		}
		m.entries[h] = data
	}

	return m, nil
}

func truncated(i uint64, err error) error {
	if errors.Is(err, ErrCorrupt) {
		return err
	}
	return fmt.Errorf("%w: entry %d: %w", ErrCorrupt, i, err)
}
