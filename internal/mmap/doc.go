// Package mmap maps encoded matrix files read-only into memory so the local
// blob store can hand decoders a zero-copy byte slice.
//
//	m, err := mmap.Open("scores.ndv")
//	if err != nil { ... }
//	defer m.Close()
//	buf := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and ignores
// access hints. Bytes must not be used after Close.
package mmap
