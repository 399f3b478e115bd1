package mat5

import (
	"errors"
	"fmt"
)

// Data types of the tagged sub-elements.
const (
	TypeInt8   uint32 = 1
	TypeUint16 uint32 = 4
	TypeInt32  uint32 = 5
	TypeUint32 uint32 = 6
	TypeDouble uint32 = 9
	TypeMatrix uint32 = 14
)

// Array classes stored in the flags sub-element.
const (
	ClassCell   uint8 = 1
	ClassChar   uint8 = 4
	ClassSparse uint8 = 5
)

const (
	// PreambleSize is the fixed size of the descriptive file header.
	PreambleSize = 128
	// HeaderTextSize is the space reserved for descriptive text.
	HeaderTextSize = 124

	// Version is the subsystem version stored after the header text.
	Version uint16 = 0x0100
	// EndianMarker reads as "IM" on disk for little-endian files.
	EndianMarker uint16 = 0x4d49

	// BytesFieldOffset is the absolute offset of the outer element's size field.
	BytesFieldOffset int64 = 0x84
	// CountFieldOffset is the absolute offset of the outer element's column count.
	CountFieldOffset int64 = 0xA4

	// MaxBits is the widest index space that fits an INT32 row index.
	MaxBits = 31
	// IndexMask clears bit 31 of a row index.
	IndexMask uint32 = 0x7FFFFFFF

	// Alignment of every sub-element.
	Alignment = 8

	// TagSize is the size of a regular type+size tag.
	TagSize = 8
)

// Array names written by the encoders.
const (
	NameData   = "data"
	NameVector = "fvec"
	NameSource = "src"
)

var (
	// ErrHeaderSize is returned when the preamble did not serialize to PreambleSize bytes.
	ErrHeaderSize = errors.New("mat5: preamble is not 128 bytes")
	// ErrIndexOverflow is returned under RejectIndices for indices with bit 31 set.
	ErrIndexOverflow = errors.New("mat5: index exceeds 31 bits")
	// ErrLengthMismatch is returned when index and value slices differ in length.
	ErrLengthMismatch = errors.New("mat5: dim and val length mismatch")
	// ErrInvalidBits is returned for index widths outside 1..MaxBits.
	ErrInvalidBits = errors.New("mat5: index width must be within 1..31 bits")
)

// IndexPolicy controls how row indices with bit 31 set are handled.
type IndexPolicy uint8

const (
	// MaskIndices clears bit 31 and writes the aliased index.
	MaskIndices IndexPolicy = iota
	// RejectIndices refuses vectors carrying such indices.
	RejectIndices
)

// String returns the policy name.
func (p IndexPolicy) String() string {
	switch p {
	case MaskIndices:
		return "mask"
	case RejectIndices:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseIndexPolicy parses "mask" or "reject".
func ParseIndexPolicy(s string) (IndexPolicy, error) {
	switch s {
	case "", "mask":
		return MaskIndices, nil
	case "reject":
		return RejectIndices, nil
	default:
		return 0, fmt.Errorf("mat5: unknown index policy %q", s)
	}
}
