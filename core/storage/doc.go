// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so packs can be published to, and fetched from,
// an S3-compatible bucket instead of the plain HTTP file server.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket before publishing.
//   - PutObject: uploads a pack archive.
//   - StatObject: reports the object size for download progress.
//   - GetObject: retrieves content as a stream.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket)
package storage
