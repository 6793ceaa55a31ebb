// Package reconcile computes and applies the changes that bring an installed
// mods directory in line with a remote manifest.
//
// # Planning
//
// ComputePlan is pure set arithmetic over file names:
//   - ToRemove: installed but absent from the manifest
//   - ToAdd: in the manifest but not installed
//   - ToUpdate: on both sides, rewritten unconditionally
//
// Each list is sorted lexicographically and the lists are pairwise disjoint.
// With PlanOptions.CompareHashes, intersecting names whose local and remote
// hashes agree are moved to Unchanged instead of ToUpdate.
//
// # Applying
//
// Apply deletes every ToRemove file before extracting anything. If a deletion
// fails the apply stops with a *PartialError listing the files already removed,
// and no extraction is attempted. Extraction failures also stop the apply.
// Completed steps are never rolled back; re-running the sync repairs the
// directory. A plan may be applied only once.
//
// # Lifecycle
//
// Session enforces the order plan, confirm, apply:
//
//	Idle -> Planned -> Confirmed -> Applying -> Done
//	        Planned -> Cancelled
//	                   Applying -> Failed
//
// Any other step returns ErrInvalidTransition.
package reconcile
