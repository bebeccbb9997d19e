// Package blobstore stores encoded matrices as named, immutable byte blobs.
//
// Store is the interface every backend implements. Implementations must be
// safe for concurrent use and report missing blobs with an error matching
// ErrNotFound.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, used by tests and the CLI "memory" backend
//   - LocalStore: a directory tree, memory-mapped reads, rate-limited writes
//   - CachingStore: an LRU of whole blobs in front of any Store
//   - s3.Store: Amazon S3 (subpackage s3)
//   - minio.Store: MinIO and other S3-compatible services (subpackage minio)
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Backends that can read without buffering the whole blob also implement
// Opener; blobs that live in addressable memory implement Mappable.
package blobstore
