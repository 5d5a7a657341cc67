// Package group maintains a hierarchy of element groups for a canvas
// selection.
//
// A [Manager] owns a tree rooted at an implicit root node. Every element is a
// leaf; composite nodes are groups. Depth is counted from the root: entries
// directly under the root have depth 1, members of a top-level group depth 2.
//
//	m := group.NewManager[string](nil, []string{"a", "b", "c"})
//	next, ok := m.Group(group.Elems("a", "b"), true)
//	// next == [Nest(a, b)], ok == true
//
// When the set of elements changes, [ExistingGroups] snapshots the current
// two-level grouping so the tree can be rebuilt with [Manager.Set]:
//
//	groups := group.ExistingGroups(m, elements)
//	m.Set(groups, elements)
//
// Selections are lists of [Target] values, each a single element or a
// (possibly nested) group. [Manager.SelectSameDepthChilds] and
// [Manager.SelectCompletedChilds] compute the next selection while a
// rubber-band gesture runs and when it completes.
package group
