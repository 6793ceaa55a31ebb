// Package mods implements the mod synchronization feature.
//
// # Update
//
// UpdateMods runs one sync: fetch the mod pack into the staging area, list its
// entries, compute the reconcile plan against the installed mods, confirm the
// removals with the operator, apply, and rebuild the hash table. Every log line
// of a run carries the same run_id.
//
// # Other operations
//
//   - ZipMods: build a mod pack from a flat directory of .jar files.
//   - DownloadLoader: fetch the mod loader installer.
//   - Hashes / SendHashes: show or report the local hash table.
package mods
