package fvecmat_test

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/fvecmat/mat5"
	"github.com/hupe1980/fvecmat/model"
)

// decode parses a finished container and returns its vectors and the
// declared row count of the sparse arrays. It checks the summary fields,
// every size field and the alignment of every sub-element.
func decode(data []byte) ([]model.FeatureVector, uint32, error) {
	d := decoder{data: data}

	if len(data) < mat5.PreambleSize+48 {
		return nil, 0, fmt.Errorf("short file: %d bytes", len(data))
	}
	if v := binary.LittleEndian.Uint16(data[124:]); v != mat5.Version {
		return nil, 0, fmt.Errorf("version %#x", v)
	}
	if m := binary.LittleEndian.Uint16(data[126:]); m != mat5.EndianMarker {
		return nil, 0, fmt.Errorf("endian marker %#x", m)
	}

	d.off = mat5.PreambleSize
	size, err := d.tag(mat5.TypeMatrix)
	if err != nil {
		return nil, 0, err
	}
	if int(size) != len(data)-mat5.PreambleSize-8 {
		return nil, 0, fmt.Errorf("outer size %d, file has %d", size, len(data)-mat5.PreambleSize-8)
	}

	if _, err := d.flags(mat5.ClassCell); err != nil {
		return nil, 0, err
	}
	rows, cols := d.dims()
	if rows != 2 {
		return nil, 0, fmt.Errorf("cell rows %d", rows)
	}
	if name := d.name(); name != mat5.NameData {
		return nil, 0, fmt.Errorf("cell name %q", name)
	}

	var (
		out   []model.FeatureVector
		space uint32
	)
	for d.off < len(data) {
		fv, r, err := d.pair()
		if err != nil {
			return nil, 0, fmt.Errorf("vector %d: %w", len(out), err)
		}
		space = r
		out = append(out, fv)
	}
	if uint32(len(out)) != cols {
		return nil, 0, fmt.Errorf("column count %d, found %d vectors", cols, len(out))
	}
	return out, space, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) u16() uint16 {
	v := binary.LittleEndian.Uint16(d.data[d.off:])
	d.off += 2
	return v
}

func (d *decoder) u32() uint32 {
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v
}

func (d *decoder) aligned() error {
	if d.off%mat5.Alignment != 0 {
		return fmt.Errorf("offset %d not aligned", d.off)
	}
	return nil
}

func (d *decoder) skipPad() {
	d.off = (d.off + mat5.Alignment - 1) &^ (mat5.Alignment - 1)
}

func (d *decoder) tag(want uint32) (uint32, error) {
	if err := d.aligned(); err != nil {
		return 0, err
	}
	if d.off+8 > len(d.data) {
		return 0, fmt.Errorf("truncated tag at %d", d.off)
	}
	typ, size := d.u32(), d.u32()
	if typ != want {
		return 0, fmt.Errorf("type %d at %d, want %d", typ, d.off-8, want)
	}
	return size, nil
}

func (d *decoder) flags(class uint8) (uint32, error) {
	if _, err := d.tag(mat5.TypeUint32); err != nil {
		return 0, err
	}
	f := d.u32()
	nzmax := d.u32()
	if uint8(f) != class {
		return 0, fmt.Errorf("class %d, want %d", uint8(f), class)
	}
	return nzmax, nil
}

func (d *decoder) dims() (uint32, uint32) {
	d.off += 8
	return d.u32(), d.u32()
}

func (d *decoder) name() string {
	d.off += 2 // type
	n := int(d.u16())
	if n == 0 {
		// regular form: the length follows the 4-byte type
		n = int(d.u32())
	}
	s := string(d.data[d.off : d.off+n])
	d.off += n
	d.skipPad()
	return s
}

func (d *decoder) pair() (model.FeatureVector, uint32, error) {
	var fv model.FeatureVector

	// source string
	size, err := d.tag(mat5.TypeMatrix)
	if err != nil {
		return fv, 0, err
	}
	end := d.off + int(size)
	if _, err := d.flags(mat5.ClassChar); err != nil {
		return fv, 0, err
	}
	if r, _ := d.dims(); r != 1 {
		return fv, 0, fmt.Errorf("char rows %d", r)
	}
	if name := d.name(); name != mat5.NameSource {
		return fv, 0, fmt.Errorf("char name %q", name)
	}
	n, err := d.tag(mat5.TypeUint16)
	if err != nil {
		return fv, 0, err
	}
	src := make([]byte, n/2)
	for i := range src {
		src[i] = byte(d.u16())
	}
	fv.Src = string(src)
	d.skipPad()
	if d.off != end {
		return fv, 0, fmt.Errorf("char element ends at %d, declared %d", d.off, end)
	}

	// sparse vector
	size, err = d.tag(mat5.TypeMatrix)
	if err != nil {
		return fv, 0, err
	}
	end = d.off + int(size)
	nzmax, err := d.flags(mat5.ClassSparse)
	if err != nil {
		return fv, 0, err
	}
	rows, cols := d.dims()
	if cols != 1 {
		return fv, 0, fmt.Errorf("sparse cols %d", cols)
	}
	if name := d.name(); name != mat5.NameVector {
		return fv, 0, fmt.Errorf("sparse name %q", name)
	}

	n, err = d.tag(mat5.TypeInt32)
	if err != nil {
		return fv, 0, err
	}
	if n != nzmax*4 {
		return fv, 0, fmt.Errorf("%d index bytes for %d nonzeros", n, nzmax)
	}
	fv.Dim = make([]uint32, nzmax)
	for i := range fv.Dim {
		fv.Dim[i] = d.u32()
	}
	d.skipPad()

	if n, err = d.tag(mat5.TypeInt32); err != nil {
		return fv, 0, err
	}
	if jc0, jc1 := d.u32(), d.u32(); n != 8 || jc0 != 0 || jc1 != nzmax {
		return fv, 0, fmt.Errorf("column pointers (%d, %d)", jc0, jc1)
	}

	if n, err = d.tag(mat5.TypeDouble); err != nil {
		return fv, 0, err
	}
	if n != nzmax*8 {
		return fv, 0, fmt.Errorf("%d value bytes for %d nonzeros", n, nzmax)
	}
	fv.Val = make([]float64, nzmax)
	for i := range fv.Val {
		fv.Val[i] = math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.off:]))
		d.off += 8
	}
	if d.off != end {
		return fv, 0, fmt.Errorf("sparse element ends at %d, declared %d", d.off, end)
	}

	return fv, rows, nil
}
