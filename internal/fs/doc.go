// Package fs provides the file system abstraction behind container sinks.
//
//   - [File]: an open file with write, seek and sync capabilities
//   - [FileSystem]: open, remove, rename and stat
//
// Production code uses fs.Default ([LocalFS]). Tests inject [FaultyFS] to
// make writes, seeks, syncs or closes fail at a chosen point:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".mat", fs.Fault{FailAfterBytes: 200})
//
// File operations take no context.Context. Local writes and seeks are not
// interruptible at the syscall level.
package fs
