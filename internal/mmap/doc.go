// Package mmap maps input files read-only into memory.
//
// The extractor scans every input byte once from front to back. Mapping the
// file and advising sequential access avoids copying it into a heap buffer.
//
//	m, err := mmap.Open("sample.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix systems use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile; advice is ignored there.
//
// Bytes must not be used after Close.
package mmap
