// Package fetch downloads remote resources into the cache's staging area.
//
// A Fetcher streams a remote.Source body to disk in fixed-size chunks and
// reports cumulative progress after each one. The context passed to Fetch is
// the cancellation token: it is checked before every chunk, and a cancelled
// download leaves nothing behind.
//
// Responses without a content length are rejected unless the fetcher is built
// WithRequireSize(false), in which case progress is reported with total -1.
package fetch
