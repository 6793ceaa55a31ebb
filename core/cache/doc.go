// Package cache manages the directory modsync owns exclusively.
//
// Layout under the cache root:
//
//	<root>/downloads/        staging area for fetched packs
//	<root>/mod-hashes.json   persisted hash table (see core/hashstore)
//
// Clear is a blunt operator escape hatch: it removes the whole root without
// confirmation. Nothing in the sync path clears the cache implicitly.
package cache
