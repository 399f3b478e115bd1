package mat5

import "fmt"

// CheckSparse validates a vector before any byte of it is written.
func CheckSparse(dim []uint32, val []float64, policy IndexPolicy) error {
	if len(dim) != len(val) {
		return fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(dim), len(val))
	}
	if policy == RejectIndices {
		for i, d := range dim {
			if d&^IndexMask != 0 {
				return fmt.Errorf("%w: dim[%d] = %d", ErrIndexOverflow, i, d)
			}
		}
	}
	return nil
}

// WriteSparse writes one feature vector as a single-column sparse array
// named "fvec" with 2^bits rows. Indices are written with bit 31 cleared.
// It returns the total number of bytes including the element tag.
//
// The caller is expected to have validated dim and val with CheckSparse.
func WriteSparse(w *Writer, bits int, dim []uint32, val []float64) int {
	n := uint32(len(dim))
	r := 0

	w.BeginElement()

	r += WriteArrayFlags(w, 0, ClassSparse, n)
	r += WriteArrayDims(w, uint32(1)<<uint(bits), 1)
	r += WriteArrayName(w, NameVector)

	// Row indices
	r += w.WriteUint32(TypeInt32)
	r += w.WriteUint32(n * 4)
	for _, d := range dim {
		r += w.WriteUint32(d & IndexMask)
	}
	r += w.Pad()

	// Column pointers of the single column
	r += w.WriteUint32(TypeInt32)
	r += w.WriteUint32(8)
	r += w.WriteUint32(0)
	r += w.WriteUint32(n)

	// Values
	r += w.WriteUint32(TypeDouble)
	r += w.WriteUint32(n * 8)
	for _, v := range val {
		r += w.WriteFloat64(v)
	}
	r += w.Pad()

	w.EndElement(r)
	return r + TagSize
}

// SparseSize returns the number of bytes WriteSparse emits for a vector with
// nnz nonzero entries.
func SparseSize(nnz int) int {
	return TagSize + 16 + 16 + 8 + TagSize + align(nnz*4) + 16 + TagSize + nnz*8
}

func align(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}
