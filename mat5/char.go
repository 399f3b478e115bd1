package mat5

// WriteChar writes s as a 1 x len(s) char array named "src". Each byte is
// zero-extended to a 16-bit code unit; no multi-byte decoding takes place.
// It returns the total number of bytes including the element tag.
func WriteChar(w *Writer, s string) int {
	l := len(s)
	r := 0

	w.BeginElement()

	r += WriteArrayFlags(w, 0, ClassChar, 0)
	r += WriteArrayDims(w, 1, uint32(l))
	r += WriteArrayName(w, NameSource)
	r += w.WriteUint32(TypeUint16)
	r += w.WriteUint32(uint32(l * 2))
	for i := 0; i < l; i++ {
		r += w.WriteUint16(uint16(s[i]))
	}
	r += w.Pad()

	w.EndElement(r)
	return r + TagSize
}

// CharSize returns the number of bytes WriteChar emits for a string of l bytes.
func CharSize(l int) int {
	return TagSize + 16 + 16 + 8 + TagSize + align(l*2)
}
