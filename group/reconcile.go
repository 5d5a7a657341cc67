package group

// ExistingGroups snapshots the two-level grouping of m for the given
// elements. For every element whose leaf sits at depth 2, its parent group
// contributes its member elements exactly once, in the order the parent is
// first reached while scanning elements. Members missing from elements are
// left out so the snapshot never names an element the caller no longer has.
//
// The result is meant to be committed with m.Set(groups, elements). Groups
// nested deeper than two levels are not reconstructed.
func ExistingGroups[E comparable](m *Manager[E], elements []E) [][]E {
	current := make(map[E]bool, len(elements))
	for _, e := range elements {
		current[e] = true
	}

	var groups [][]E
	seen := make(map[*Child[E]]bool)
	for _, c := range m.ToChilds(elements) {
		if c.Depth != 2 || seen[c.Parent] {
			continue
		}
		seen[c.Parent] = true

		members := c.Parent.Members()
		kept := members[:0]
		for _, e := range members {
			if current[e] {
				kept = append(kept, e)
			}
		}
		groups = append(groups, kept)
	}
	return groups
}
