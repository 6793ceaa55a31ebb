// Package remote provides the sources packs are downloaded from.
//
// A Source turns a resource name into a byte stream plus its advertised size.
// Two implementations exist:
//
//   - HTTPSource: GET <base_url><name> against the pack file server, with bounded
//     connect and response-header timeouts. Non-2xx answers become
//     apperr.RemoteError; deadline expiries become apperr.TimeoutError carrying
//     a connectivity hint.
//   - StorageSource: the same resource names read from an S3/MinIO bucket.
//
// HTTPSource also posts the local hash table back to the server (PostJSON).
package remote
