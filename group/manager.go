package group

import (
	"fmt"
	"slices"
	"strings"
)

// Child is a node in the group tree. Leaves carry an element in Value;
// composite nodes carry Children. Depth is always Parent.Depth + 1.
type Child[E comparable] struct {
	Parent   *Child[E]
	Depth    int
	Value    E
	Children []*Child[E]

	group bool
}

// IsGroup reports whether c is a composite node.
func (c *Child[E]) IsGroup() bool {
	return c.group
}

// Elements returns every leaf element under c in tree order. A leaf returns
// itself.
func (c *Child[E]) Elements() []E {
	return c.appendElements(nil)
}

func (c *Child[E]) appendElements(buf []E) []E {
	if !c.group {
		return append(buf, c.Value)
	}
	for _, ch := range c.Children {
		buf = ch.appendElements(buf)
	}
	return buf
}

// Members returns the elements of c's direct leaf children. Nested groups
// are skipped.
func (c *Child[E]) Members() []E {
	out := make([]E, 0, len(c.Children))
	for _, ch := range c.Children {
		if !ch.group {
			out = append(out, ch.Value)
		}
	}
	return out
}

// Target converts the subtree rooted at c into a selection Target.
func (c *Child[E]) Target() Target[E] {
	if !c.group {
		return Elem(c.Value)
	}
	children := make([]Target[E], len(c.Children))
	for i, ch := range c.Children {
		children[i] = ch.Target()
	}
	return Nest(children...)
}

// ancestorAt returns c's ancestor at the given depth, or c itself when c is
// already at or above that depth.
func (c *Child[E]) ancestorAt(depth int) *Child[E] {
	n := c
	for n.Depth > depth && n.Parent != nil {
		n = n.Parent
	}
	return n
}

func (c *Child[E]) containsAny(set map[E]bool) bool {
	if !c.group {
		return set[c.Value]
	}
	for _, ch := range c.Children {
		if ch.containsAny(set) {
			return true
		}
	}
	return false
}

func (c *Child[E]) indexOf(child *Child[E]) int {
	for i, ch := range c.Children {
		if ch == child {
			return i
		}
	}
	return -1
}

func (c *Child[E]) appendChild(child *Child[E]) {
	child.Parent = c
	c.Children = append(c.Children, child)
}

func (c *Child[E]) insertChild(index int, child *Child[E]) {
	child.Parent = c
	c.Children = slices.Insert(c.Children, index, child)
}

func (c *Child[E]) removeChild(child *Child[E]) {
	if i := c.indexOf(child); i >= 0 {
		c.Children = slices.Delete(c.Children, i, i+1)
	}
	child.Parent = nil
}

func (c *Child[E]) setDepth(depth int) {
	c.Depth = depth
	for _, ch := range c.Children {
		ch.setDepth(depth + 1)
	}
}

// Manager owns a group tree over a set of elements.
type Manager[E comparable] struct {
	root   *Child[E]
	leaves map[E]*Child[E]
}

// NewManager creates a Manager and initializes it with Set(groups, elements).
func NewManager[E comparable](groups [][]E, elements []E) *Manager[E] {
	m := &Manager[E]{}
	m.Set(groups, elements)
	return m
}

// Root returns the root node. It is a composite node at depth 0.
func (m *Manager[E]) Root() *Child[E] {
	return m.root
}

// Len returns the number of elements in the tree.
func (m *Manager[E]) Len() int {
	return len(m.leaves)
}

// Set rebuilds the tree from a flat group list and the complete element set.
//
// Group members absent from elements are dropped, an element listed by more
// than one group belongs to the first, and a group left with fewer than two
// members becomes a standalone leaf. Every element not in a group becomes a
// top-level leaf. Top-level entries follow the first appearance of any of
// their members in elements.
func (m *Manager[E]) Set(groups [][]E, elements []E) {
	m.root = &Child[E]{group: true}
	m.leaves = make(map[E]*Child[E], len(elements))

	known := make(map[E]bool, len(elements))
	for _, e := range elements {
		known[e] = true
	}

	owner := make(map[E]int)
	members := make([][]E, len(groups))
	for i, g := range groups {
		for _, e := range g {
			if !known[e] {
				continue
			}
			if _, taken := owner[e]; taken {
				continue
			}
			owner[e] = i
			members[i] = append(members[i], e)
		}
	}

	placed := make([]bool, len(groups))
	for _, e := range elements {
		if _, dup := m.leaves[e]; dup {
			continue
		}
		i, grouped := owner[e]
		if !grouped || len(members[i]) < 2 {
			m.root.appendChild(m.newLeaf(e))
			continue
		}
		if placed[i] {
			continue
		}
		placed[i] = true
		g := &Child[E]{group: true}
		for _, me := range members[i] {
			g.appendChild(m.newLeaf(me))
		}
		m.root.appendChild(g)
	}
	m.root.setDepth(0)
}

func (m *Manager[E]) newLeaf(e E) *Child[E] {
	leaf := &Child[E]{Value: e}
	m.leaves[e] = leaf
	return leaf
}

// ToChilds returns the leaf node of every known element, in the order given.
// Unknown elements are skipped.
func (m *Manager[E]) ToChilds(elements []E) []*Child[E] {
	out := make([]*Child[E], 0, len(elements))
	for _, e := range elements {
		if leaf, ok := m.leaves[e]; ok {
			out = append(out, leaf)
		}
	}
	return out
}

// Groups returns the tree's current top-level groups of plain elements.
// A group whose direct elements number fewer than two, such as one holding
// a sub-group and a single leaf, is left out.
func (m *Manager[E]) Groups() [][]E {
	groups := ExistingGroups(m, m.root.Elements())
	return slices.DeleteFunc(groups, func(g []E) bool { return len(g) < 2 })
}

// Group moves targets into a new composite node and returns the new
// selection holding that group.
//
// Each target is lifted to the child of the targets' lowest common ancestor.
// When nested is false, lifted groups are merged into the new group instead
// of being kept as sub-groups. Group reports false, leaving the tree
// unchanged, when fewer than two distinct nodes remain after lifting, when a
// target is unknown, or when the nodes already form a whole group.
func (m *Manager[E]) Group(targets []Target[E], nested bool) ([]Target[E], bool) {
	nodes, ok := m.resolve(targets)
	if !ok || len(nodes) < 2 {
		return nil, false
	}

	container := nodes[0].Parent
	for _, n := range nodes[1:] {
		container = lowestCommon(container, n.Parent)
	}

	lifted := make([]*Child[E], 0, len(nodes))
	seen := make(map[*Child[E]]bool, len(nodes))
	for _, n := range nodes {
		for n.Parent != container {
			n = n.Parent
		}
		if !seen[n] {
			seen[n] = true
			lifted = append(lifted, n)
		}
	}
	if len(lifted) < 2 {
		return nil, false
	}
	if container != m.root && len(lifted) == len(container.Children) {
		return nil, false
	}
	slices.SortFunc(lifted, func(a, b *Child[E]) int {
		return container.indexOf(a) - container.indexOf(b)
	})

	at := container.indexOf(lifted[0])
	for _, n := range lifted {
		container.removeChild(n)
	}
	g := &Child[E]{group: true}
	for _, n := range lifted {
		if nested || !n.group {
			g.appendChild(n)
			continue
		}
		for _, ch := range n.Children {
			g.appendChild(ch)
		}
		n.Children = nil
	}
	container.insertChild(at, g)
	g.setDepth(container.Depth + 1)

	return []Target[E]{g.Target()}, true
}

// Ungroup dissolves every target that is a group, splicing its children into
// its parent where the group was. The returned selection replaces each
// dissolved group by its children. Ungroup reports false when no target was a
// group.
func (m *Manager[E]) Ungroup(targets []Target[E]) ([]Target[E], bool) {
	var next []Target[E]
	changed := false
	for _, t := range targets {
		n := m.find(t)
		if n == nil || !n.group || n == m.root {
			next = append(next, t)
			continue
		}
		parent := n.Parent
		at := parent.indexOf(n)
		kids := n.Children
		n.Children = nil
		parent.removeChild(n)
		for i, ch := range kids {
			parent.insertChild(at+i, ch)
			ch.setDepth(parent.Depth + 1)
			next = append(next, ch.Target())
		}
		changed = true
	}
	if !changed {
		return nil, false
	}
	return next, true
}

// SelectSameDepthChilds computes the next selection while a drag-select
// gesture is in progress. Each selected element is promoted to its ancestor
// at the depth of the shallowest current target (depth 1 when nothing is
// selected yet).
func (m *Manager[E]) SelectSameDepthChilds(targets []Target[E], added, removed []E) TargetList[E] {
	depth := 1
	if nodes := m.resolveKnown(targets); len(nodes) > 0 {
		depth = nodes[0].Depth
		for _, n := range nodes[1:] {
			depth = min(depth, n.Depth)
		}
	}

	selected := make(map[E]bool)
	for _, e := range Flatten(targets) {
		selected[e] = true
	}
	for _, e := range added {
		selected[e] = true
	}
	for _, e := range removed {
		delete(selected, e)
	}

	chosen := make(map[*Child[E]]bool, len(selected))
	for e := range selected {
		if leaf, ok := m.leaves[e]; ok {
			chosen[leaf.ancestorAt(depth)] = true
		}
	}
	return m.listInTreeOrder(chosen)
}

// SelectCompletedChilds computes the selection once a gesture completes.
// Current targets holding a removed element are dropped and every added
// element selects its whole top-level entry.
func (m *Manager[E]) SelectCompletedChilds(targets []Target[E], added, removed []E) TargetList[E] {
	gone := make(map[E]bool, len(removed))
	for _, e := range removed {
		gone[e] = true
	}

	chosen := make(map[*Child[E]]bool)
	for _, n := range m.resolveKnown(targets) {
		if !n.containsAny(gone) {
			chosen[n] = true
		}
	}
	for _, e := range added {
		if gone[e] {
			continue
		}
		if leaf, ok := m.leaves[e]; ok {
			chosen[leaf.ancestorAt(1)] = true
		}
	}
	return m.listInTreeOrder(chosen)
}

// Reselect maps a selection made against an earlier tree onto the current
// one. Targets that still resolve are kept; every other target is replaced by
// the top-level entries holding its remaining elements.
func (m *Manager[E]) Reselect(targets []Target[E]) TargetList[E] {
	var lost []E
	for _, t := range targets {
		if m.find(t) == nil {
			lost = append(lost, t.Flatten()...)
		}
	}
	return m.SelectCompletedChilds(targets, lost, nil)
}

// listInTreeOrder walks the tree and collects the outermost chosen nodes.
func (m *Manager[E]) listInTreeOrder(chosen map[*Child[E]]bool) TargetList[E] {
	var out []Target[E]
	var walk func(n *Child[E])
	walk = func(n *Child[E]) {
		for _, ch := range n.Children {
			if chosen[ch] {
				out = append(out, ch.Target())
				continue
			}
			if ch.group {
				walk(ch)
			}
		}
	}
	walk(m.root)
	return TargetList[E]{targets: out}
}

// find resolves a Target to its tree node. A group Target resolves to the
// composite node whose elements are exactly the target's elements.
func (m *Manager[E]) find(t Target[E]) *Child[E] {
	if !t.IsGroup() {
		return m.leaves[t.elem]
	}
	elems := t.Flatten()
	if len(elems) == 0 {
		return nil
	}
	leaf := m.leaves[elems[0]]
	if leaf == nil {
		return nil
	}
	for n := leaf.Parent; n != nil && n != m.root; n = n.Parent {
		if sameElements(n.Elements(), elems) {
			return n
		}
	}
	return nil
}

// resolve maps every target to its node; ok is false if any is unknown.
func (m *Manager[E]) resolve(targets []Target[E]) ([]*Child[E], bool) {
	nodes := make([]*Child[E], 0, len(targets))
	for _, t := range targets {
		n := m.find(t)
		if n == nil {
			return nil, false
		}
		nodes = append(nodes, n)
	}
	return nodes, true
}

// resolveKnown maps targets to nodes, skipping unknown ones.
func (m *Manager[E]) resolveKnown(targets []Target[E]) []*Child[E] {
	nodes := make([]*Child[E], 0, len(targets))
	for _, t := range targets {
		if n := m.find(t); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// String renders the tree, one node per line, indented by depth.
func (m *Manager[E]) String() string {
	var b strings.Builder
	b.WriteString("root\n")
	var walk func(n *Child[E])
	walk = func(n *Child[E]) {
		for _, ch := range n.Children {
			b.WriteString(strings.Repeat("  ", ch.Depth))
			if ch.group {
				b.WriteString("group\n")
				walk(ch)
				continue
			}
			fmt.Fprintf(&b, "%v\n", ch.Value)
		}
	}
	walk(m.root)
	return b.String()
}

func lowestCommon[E comparable](a, b *Child[E]) *Child[E] {
	for a.Depth > b.Depth {
		a = a.Parent
	}
	for b.Depth > a.Depth {
		b = b.Parent
	}
	for a != b {
		a = a.Parent
		b = b.Parent
	}
	return a
}

func sameElements[E comparable](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[E]bool, len(a))
	for _, e := range a {
		set[e] = true
	}
	for _, e := range b {
		if !set[e] {
			return false
		}
	}
	return true
}
