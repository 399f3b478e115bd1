// Package mat5 encodes feature vectors into the MAT-file version 5 binary layout.
//
// The package is a streaming encoder. It never materializes a whole document:
// every matrix element is written with a placeholder size that is backpatched
// once its body has been emitted.
//
// # Layout
//
// A container produced with this package looks like:
//
//	[0, 128)      preamble: descriptive text, version 0x0100, endian marker "IM"
//	[128, 176)    outer cell array: tag, flags, dims (2 x N), name "data"
//	[176, ...)    N pairs of (char element "src", sparse element "fvec")
//
// The outer element's byte count lives at [BytesFieldOffset] and the column
// count N at [CountFieldOffset]. Both are placeholders until patched.
//
// # Alignment
//
// Every sub-element is padded so that the absolute file offset after it is a
// multiple of 8. Padding is computed from the absolute offset, not from the
// start of the element, which is why a [Writer] carries a base offset when it
// writes into a staging buffer.
//
// # Index width
//
// Row indices are stored as INT32. Indices are masked with [IndexMask]
// by default ([MaskIndices]), which aliases indices >= 2^31 onto lower ones.
// Use [RejectIndices] to fail such vectors instead.
package mat5
