// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]). Tests can
// inject [FaultyFS] to verify that a failed write never leaves the store
// in a partially-persisted state:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("pareto", fs.Fault{FailWrites: true})
//	// inject ffs into component under test
//
// Filesystem operations here intentionally take no context.Context:
// local file I/O is fast and non-interruptible at the syscall level.
package fs
