package extract

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hupe1980/fvecmat/featmap"
	"github.com/hupe1980/fvecmat/mat5"
)

// Granularity selects the unit n-grams are built from.
type Granularity uint8

const (
	// Bytes builds n-grams of consecutive bytes.
	Bytes Granularity = iota
	// Tokens builds n-grams of consecutive delimiter-separated tokens.
	Tokens
)

// Normalization selects the vector norm.
type Normalization uint8

const (
	NormNone Normalization = iota
	NormL1
	NormL2
)

// Embedding selects the value of a dimension.
type Embedding uint8

const (
	// EmbedCount uses the number of occurrences.
	EmbedCount Embedding = iota
	// EmbedBinary uses 1 for every present dimension.
	EmbedBinary
)

// DefaultDelimiters separate tokens when none are configured.
const DefaultDelimiters = " \t\r\n.,:;!?"

// DefaultMaxInflightBytes bounds the input bytes being processed at once.
const DefaultMaxInflightBytes = 256 << 20

var errInvalidConfig = errors.New("extract: invalid config")

// Config configures an Extractor.
type Config struct {
	// Bits is the width of the feature space, 1 to 31.
	Bits int
	// NGramLen is the number of bytes or tokens per n-gram.
	NGramLen    int
	Granularity Granularity
	// Delimiters lists the bytes separating tokens.
	Delimiters string
	Normalize  Normalization
	Embedding  Embedding
	// Workers bounds the number of files processed concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// MaxInflightBytes bounds the size of the files processed concurrently.
	MaxInflightBytes int64
	// Map, if set, records the n-gram of every dimension.
	Map *featmap.Map
}

// DefaultConfig returns byte 3-grams in a 2^24 space.
func DefaultConfig() Config {
	return Config{
		Bits:             24,
		NGramLen:         3,
		Granularity:      Bytes,
		Delimiters:       DefaultDelimiters,
		MaxInflightBytes: DefaultMaxInflightBytes,
	}
}

func (c *Config) validate() error {
	if c.Bits < 1 || c.Bits > mat5.MaxBits {
		return fmt.Errorf("%w: bits %d not in 1..%d", errInvalidConfig, c.Bits, mat5.MaxBits)
	}
	if c.NGramLen < 1 {
		return fmt.Errorf("%w: n-gram length %d", errInvalidConfig, c.NGramLen)
	}
	if c.Granularity > Tokens {
		return fmt.Errorf("%w: granularity %d", errInvalidConfig, c.Granularity)
	}
	if c.Granularity == Tokens && c.Delimiters == "" {
		return fmt.Errorf("%w: token granularity without delimiters", errInvalidConfig)
	}
	if c.Normalize > NormL2 {
		return fmt.Errorf("%w: normalization %d", errInvalidConfig, c.Normalize)
	}
	if c.Embedding > EmbedBinary {
		return fmt.Errorf("%w: embedding %d", errInvalidConfig, c.Embedding)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", errInvalidConfig, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.MaxInflightBytes <= 0 {
		c.MaxInflightBytes = DefaultMaxInflightBytes
	}
	return nil
}

// ParseGranularity parses "bytes" or "tokens".
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "bytes":
		return Bytes, nil
	case "tokens":
		return Tokens, nil
	}
	return 0, fmt.Errorf("%w: unknown granularity %q", errInvalidConfig, s)
}

// ParseNormalization parses "none", "l1" or "l2".
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "", "none":
		return NormNone, nil
	case "l1":
		return NormL1, nil
	case "l2":
		return NormL2, nil
	}
	return 0, fmt.Errorf("%w: unknown normalization %q", errInvalidConfig, s)
}

// ParseEmbedding parses "cnt" / "count" or "bin" / "binary".
func ParseEmbedding(s string) (Embedding, error) {
	switch s {
	case "", "cnt", "count":
		return EmbedCount, nil
	case "bin", "binary":
		return EmbedBinary, nil
	}
	return 0, fmt.Errorf("%w: unknown embedding %q", errInvalidConfig, s)
}
