package mat5

// WriteArrayFlags writes the 16-byte array flags sub-element. flags are the
// logical/global/complex bits, class the array class and nzmax the number of
// nonzero entries of a sparse array.
func WriteArrayFlags(w *Writer, flags, class uint8, nzmax uint32) int {
	w.WriteUint32(TypeUint32)
	w.WriteUint32(8)
	w.WriteUint32(uint32(flags)<<16 | uint32(class))
	w.WriteUint32(nzmax)
	return 16
}

// WriteArrayDims writes the 16-byte dimensions sub-element of a 2-D array.
func WriteArrayDims(w *Writer, rows, cols uint32) int {
	w.WriteUint32(TypeInt32)
	w.WriteUint32(8)
	w.WriteUint32(rows)
	w.WriteUint32(cols)
	return 16
}

// WriteArrayName writes the array name sub-element. Names of at most four
// bytes use the small data element format where type and length share the
// first four bytes.
func WriteArrayName(w *Writer, name string) int {
	l := len(name)
	if l <= 4 {
		w.WriteUint16(uint16(TypeInt8))
		w.WriteUint16(uint16(l))
		w.WriteBytes([]byte(name))
		return 4 + l + w.Pad()
	}
	w.WriteUint32(TypeInt8)
	w.WriteUint32(uint32(l))
	w.WriteBytes([]byte(name))
	return 8 + l + w.Pad()
}
