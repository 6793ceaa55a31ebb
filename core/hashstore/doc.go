// Package hashstore keeps the table of installed mod names and their SHA-256 hashes.
//
// The table is created on first use by hashing every regular file in the mods
// directory and persisted as one JSON object. Later loads trust the persisted
// record without re-verifying it; Rebuild and Clear are the explicit ways to
// refresh it.
//
// The reconciliation diff itself compares names. The table is consulted only
// when content comparison is enabled (sync.compare_hashes).
package hashstore
