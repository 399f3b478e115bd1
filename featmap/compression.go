package featmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of a saved map.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// ErrCorrupt is returned when a saved map cannot be decoded.
var ErrCorrupt = errors.New("featmap: corrupt data")

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// ParseCompression parses "none", "lz4" or "zstd". The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("featmap: unknown compression %q", s)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const (
	blockHeaderSize  = 8
	defaultBlockSize = 64 * 1024
	// Blocks that shrink by less than this ratio are stored raw.
	minCompressionRatio = 0.9
)

// compress returns the compressed form of data, or nil if storing it raw
// is at least as small.
func compress(data []byte, c Compression) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("featmap: unknown compression %d", c)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(data))*minCompressionRatio {
		return nil, nil
	}
	return out, nil
}

func decompress(data []byte, size uint32, c Compression) ([]byte, error) {
	out := make([]byte, size)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(data, out[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: compressed block without compression", ErrCorrupt)
}

// blockWriter buffers a byte stream and writes it as blocks.
type blockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buf         []byte
	hdr         [blockHeaderSize]byte
}

func newBlockWriter(w io.Writer, c Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &blockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buf:         make([]byte, 0, blockSize),
	}
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if len(b.buf) == b.blockSize {
			if err := b.Flush(); err != nil {
				return total, err
			}
		}
		n := min(len(p), b.blockSize-len(b.buf))
		b.buf = append(b.buf, p[:n]...)
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush writes the buffered bytes as one block.
func (b *blockWriter) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}

	packed, err := compress(b.buf, b.compression)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(b.hdr[0:], uint32(len(b.buf)))
	binary.LittleEndian.PutUint32(b.hdr[4:], uint32(len(packed)))
	if _, err := b.w.Write(b.hdr[:]); err != nil {
		return err
	}

	data := packed
	if data == nil {
		data = b.buf
	}
	if _, err := b.w.Write(data); err != nil {
		return err
	}

	b.buf = b.buf[:0]
	return nil
}

// blockReader turns a sequence of blocks back into a byte stream.
type blockReader struct {
	r           io.Reader
	compression Compression
	block       []byte
	hdr         [blockHeaderSize]byte
}

func (b *blockReader) Read(p []byte) (int, error) {
	for len(b.block) == 0 {
		if err := b.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, b.block)
	b.block = b.block[n:]
	return n, nil
}

func (b *blockReader) next() error {
	if _, err := io.ReadFull(b.r, b.hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated block header", ErrCorrupt)
		}
		return err
	}

	size := binary.LittleEndian.Uint32(b.hdr[0:])
	packed := binary.LittleEndian.Uint32(b.hdr[4:])

	n := size
	if packed != 0 {
		n = packed
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(b.r, data); err != nil {
		return fmt.Errorf("%w: truncated block: %w", ErrCorrupt, err)
	}

	if packed == 0 {
		b.block = data
		return nil
	}

	out, err := decompress(data, size, b.compression)
	if err != nil {
		return err
	}
	b.block = out
	return nil
}
