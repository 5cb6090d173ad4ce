// Package mmap maps input dump files read-only into memory.
//
// Converting a dump reads every byte exactly once, front to back, so callers
// map the file, advise the kernel of sequential access, copy the payload out
// into typed buffers and close the mapping before the next file is touched.
//
//	m, err := mmap.Open("base.i8bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix platforms use mmap(2)/madvise(2) via golang.org/x/sys/unix. Windows
// uses CreateFileMapping/MapViewOfFile and treats Advise as a no-op.
package mmap
