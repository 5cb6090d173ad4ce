// Package fs abstracts the filesystem calls used to write converted arrays,
// so tests can inject I/O failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wrapper that fails writes, syncs, closes or renames on demand
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.CreateTemp(dir, "base.bin.npy.tmp-*")
//
// Tests wrap it:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".npy", fs.Fault{FailAfterBytes: 128})
package fs
