// Package fs provides the filesystem seam used by the local dataset backend.
//
//   - [FileSystem]: the operations needed to replace a file atomically
//   - [LocalFS]: production implementation over the os package
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename failures
//
// Operations take no context.Context; local syscalls are not interruptible.
package fs
