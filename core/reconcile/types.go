package reconcile

import (
	"sort"
	"time"
)

// Entry represents one file in the remote manifest.
type Entry struct {
	// Name is the file name, relative to the installed directory.
	Name string `json:"name"`

	// Size is the uncompressed size in bytes.
	Size int64 `json:"size"`

	// Hash is the lowercase hex SHA-256 of the content.
	// Only populated when content comparison is enabled.
	Hash string `json:"hash,omitempty"`
}

// Manifest is the desired end state: the entries of a freshly fetched archive.
type Manifest struct {
	// Entries are kept in archive order.
	Entries []Entry `json:"entries"`
}

// Names returns the distinct entry names, sorted.
func (m Manifest) Names() []string {
	return sortedSet(entryNames(m.Entries))
}

// Hashes returns the known entry hashes keyed by name.
func (m Manifest) Hashes() map[string]string {
	hashes := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		if e.Hash != "" {
			hashes[e.Name] = e.Hash
		}
	}
	return hashes
}

// PlanOptions controls plan computation.
type PlanOptions struct {
	// CompareHashes keeps intersecting names whose hashes match out of ToUpdate.
	// When false every intersecting name is rewritten.
	CompareHashes bool

	// Installed holds the local hash table used when CompareHashes is set.
	Installed map[string]string
}

// Plan is the set of changes that brings the installed directory in line with
// a manifest. All name lists are disjoint and sorted lexicographically.
type Plan struct {
	// ToAdd holds names present remotely but not locally.
	ToAdd []string `json:"to_add"`

	// ToUpdate holds names present on both sides; they are rewritten.
	ToUpdate []string `json:"to_update"`

	// ToRemove holds names present locally but not remotely.
	// Applying the plan deletes them permanently.
	ToRemove []string `json:"to_remove"`

	// Unchanged holds intersecting names skipped by hash comparison.
	Unchanged []string `json:"unchanged"`

	// Total is the number of distinct entries in the manifest.
	Total int `json:"total"`

	consumed bool
}

// Install returns every name the apply extracts: ToAdd and ToUpdate, sorted.
func (p *Plan) Install() []string {
	names := make([]string, 0, len(p.ToAdd)+len(p.ToUpdate))
	names = append(names, p.ToAdd...)
	names = append(names, p.ToUpdate...)
	sort.Strings(names)
	return names
}

// IsNoop reports whether applying the plan would change nothing.
func (p *Plan) IsNoop() bool {
	return len(p.ToAdd) == 0 && len(p.ToUpdate) == 0 && len(p.ToRemove) == 0
}

// ApplyResult summarizes a completed apply.
type ApplyResult struct {
	// Removed is the number of files deleted.
	Removed int `json:"removed"`

	// Added is the number of new files extracted.
	Added int `json:"added"`

	// Updated is the number of existing files rewritten.
	Updated int `json:"updated"`

	// Elapsed is the wall time of the apply.
	Elapsed time.Duration `json:"elapsed"`
}

// ApplyOptions carries optional apply callbacks.
type ApplyOptions struct {
	// OnRemove is called after each file is deleted.
	OnRemove func(name string)

	// OnInstall is called before each file is extracted.
	OnInstall func(name string)
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// sortedSet collapses duplicates and sorts.
func sortedSet(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
