// Package blobstore provides the storage abstraction behind a persisted dataset.
//
// A dataset is small and always rewritten wholesale, so a Store only needs
// whole-object reads and atomic whole-object replacement.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, temp file + fsync + rename
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and S3-compatible object storage
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - Throttled: rate limits Put calls of any Store
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (io.ReadCloser, error) // ErrNotFound if missing
//	    Put(ctx, name, data) error             // atomic replace
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
