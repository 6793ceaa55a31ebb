package reconcile

// ComputePlan diffs the installed names against the manifest. It performs no
// I/O and returns the same plan for the same inputs regardless of their order.
func ComputePlan(installed []string, manifest Manifest, opts PlanOptions) *Plan {
	local := toSet(installed)
	remote := toSet(entryNames(manifest.Entries))

	plan := &Plan{
		ToAdd:     []string{},
		ToUpdate:  []string{},
		ToRemove:  []string{},
		Unchanged: []string{},
		Total:     len(remote),
	}

	remoteHashes := manifest.Hashes()

	for _, name := range sortedSet(installed) {
		if _, ok := remote[name]; !ok {
			plan.ToRemove = append(plan.ToRemove, name)
			continue
		}
		if opts.CompareHashes && sameContent(name, opts.Installed, remoteHashes) {
			plan.Unchanged = append(plan.Unchanged, name)
			continue
		}
		plan.ToUpdate = append(plan.ToUpdate, name)
	}

	for _, name := range sortedSet(entryNames(manifest.Entries)) {
		if _, ok := local[name]; !ok {
			plan.ToAdd = append(plan.ToAdd, name)
		}
	}

	return plan
}

func sameContent(name string, local, remote map[string]string) bool {
	l, ok := local[name]
	if !ok || l == "" {
		return false
	}
	return l == remote[name]
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
