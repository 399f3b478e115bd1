package fvecmat

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fvecmat/mat5"
)

var (
	// ErrInvalidBits is returned when the index width is outside 1..31.
	ErrInvalidBits = mat5.ErrInvalidBits

	// ErrSinkUnavailable is returned when the output file cannot be created.
	ErrSinkUnavailable = errors.New("sink unavailable")

	// ErrHeaderConstruction is returned when the preamble did not serialize
	// to exactly 128 bytes.
	ErrHeaderConstruction = errors.New("header construction failed")

	// ErrClosed is returned when writing to a closed session.
	ErrClosed = errors.New("session closed")

	// ErrSessionBroken is returned after a failed write. The output file is
	// structurally invalid and should be discarded.
	ErrSessionBroken = errors.New("session broken by a previous write error")

	// ErrContainerFull is returned when a block would push the outer element
	// past the 4 GiB limit of its size field.
	ErrContainerFull = errors.New("container exceeds 4 GiB")

	// ErrIndexOverflow is returned under mat5.RejectIndices for indices >= 2^31.
	ErrIndexOverflow = mat5.ErrIndexOverflow

	// ErrLengthMismatch is returned when a vector's Dim and Val differ in length.
	ErrLengthMismatch = mat5.ErrLengthMismatch

	errEmptyName = errors.New("must not be empty")
	errNegative  = errors.New("must not be negative")
)

// ErrConfiguration indicates an invalid session option.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrConfiguration struct {
	Option string
	Value  any
	cause  error
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v: %v", e.Option, e.Value, e.cause)
}

func (e *ErrConfiguration) Unwrap() error { return e.cause }

// ErrIO indicates a failed write, seek, sync or close on the sink.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrIO struct {
	Op    string
	Path  string
	cause error
}

func (e *ErrIO) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.cause)
}

func (e *ErrIO) Unwrap() error { return e.cause }

// ErrInvalidVector identifies the vector of a block that failed validation.
// Nothing of the block has been written when it is returned.
type ErrInvalidVector struct {
	Index int
	Src   string
	cause error
}

func (e *ErrInvalidVector) Error() string {
	return fmt.Sprintf("invalid vector %d (src %q): %v", e.Index, e.Src, e.cause)
}

func (e *ErrInvalidVector) Unwrap() error { return e.cause }
