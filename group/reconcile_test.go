package group

import (
	"reflect"
	"slices"
	"testing"

	"pgregory.net/rapid"
)

func TestExistingGroupsDemo(t *testing.T) {
	m := newDemoManager(t)
	got := ExistingGroups(m, cubes)
	want := [][]string{{"a", "b"}, {"d", "e"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExistingGroups = %v, want %v", got, want)
	}
}

func TestExistingGroupsAfterAdd(t *testing.T) {
	m := newDemoManager(t)
	withG := append(slices.Clone(cubes), "g")

	// Reconcile against the tree that has not seen g yet.
	groups := ExistingGroups(m, withG)
	want := [][]string{{"a", "b"}, {"d", "e"}}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("ExistingGroups = %v, want %v", groups, want)
	}

	m.Set(groups, withG)
	if m.Len() != 7 {
		t.Errorf("Len = %d, want 7", m.Len())
	}
	g := m.ToChilds([]string{"g"})
	if len(g) != 1 {
		t.Fatal("g should be known after Set")
	}
	if g[0].Depth != 1 || g[0].Parent != m.Root() || g[0].IsGroup() {
		t.Errorf("g should be a standalone leaf, Depth = %d", g[0].Depth)
	}
	if got := m.Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups after Set = %v, want %v", got, want)
	}
}

func TestExistingGroupsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		m        *Manager[string]
		elements []string
	}{
		{"no elements", NewManager([][]string{{"a", "b"}}, cubes), nil},
		{"nothing grouped", NewManager[string](nil, cubes), cubes},
		{"unknown elements", NewManager([][]string{{"a", "b"}}, cubes), []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExistingGroups(tt.m, tt.elements); len(got) != 0 {
				t.Errorf("ExistingGroups = %v, want empty", got)
			}
		})
	}
}

func TestExistingGroupsDeduplicates(t *testing.T) {
	big := []string{"a", "b", "c", "d", "e"}
	m := NewManager([][]string{big}, append(slices.Clone(big), "f"))
	got := ExistingGroups(m, []string{"e", "a", "c", "f", "b", "d"})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (one entry per group)", len(got))
	}
	if !reflect.DeepEqual(got[0], big) {
		t.Errorf("members = %v, want %v", got[0], big)
	}
}

func TestExistingGroupsFirstEncounterOrder(t *testing.T) {
	m := newDemoManager(t)
	got := ExistingGroups(m, []string{"f", "e", "c", "b", "a", "d"})
	want := [][]string{{"d", "e"}, {"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExistingGroups = %v, want %v", got, want)
	}
}

func TestExistingGroupsSkipsRemovedMembers(t *testing.T) {
	m := newDemoManager(t)
	// b is no longer on the canvas.
	got := ExistingGroups(m, []string{"a", "c", "d", "e", "f"})
	want := [][]string{{"a"}, {"d", "e"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExistingGroups = %v, want %v", got, want)
	}
}

func TestExistingGroupsIgnoresDeeperNesting(t *testing.T) {
	m := newDemoManager(t)
	// {{a,b},{d,e}}: every element now sits at depth 3.
	if _, ok := m.Group(Elems("a", "d"), true); !ok {
		t.Fatal("Group should succeed")
	}
	if got := ExistingGroups(m, cubes); len(got) != 0 {
		t.Errorf("ExistingGroups = %v, want empty", got)
	}
}

func TestExistingGroupsDoesNotMutate(t *testing.T) {
	m := newDemoManager(t)
	before := m.String()
	ExistingGroups(m, append(slices.Clone(cubes), "g"))
	if m.String() != before {
		t.Error("ExistingGroups changed the tree")
	}
}

// --- Properties ---

// drawTwoLevel draws an element set and a disjoint two-level grouping over a
// subset of it.
func drawTwoLevel(t *rapid.T) ([]int, [][]int) {
	n := rapid.IntRange(0, 16).Draw(t, "n")
	elements := make([]int, n)
	for i := range elements {
		elements[i] = i
	}
	elements = rapid.Permutation(elements).Draw(t, "elements")

	pool := rapid.Permutation(elements).Draw(t, "pool")
	var groups [][]int
	for len(pool) >= 2 {
		size := rapid.IntRange(0, len(pool)).Draw(t, "size")
		if size < 2 {
			break
		}
		groups = append(groups, slices.Clone(pool[:size]))
		pool = pool[size:]
	}
	return elements, groups
}

func TestExistingGroupsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements, groups := drawTwoLevel(t)
		m := NewManager(groups, elements)
		before := m.String()

		snapshot := ExistingGroups(m, elements)
		if len(snapshot) != len(groups) {
			t.Fatalf("snapshot has %d groups, want %d", len(snapshot), len(groups))
		}

		m.Set(snapshot, elements)
		if after := m.String(); after != before {
			t.Fatalf("round trip changed the tree:\n%s\nwant\n%s", after, before)
		}
	})
}

func TestExistingGroupsRoundTripFromGroupCalls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements, groups := drawTwoLevel(t)
		m := NewManager[int](nil, elements)
		for _, g := range groups {
			if _, ok := m.Group(Elems(g...), true); !ok {
				t.Fatalf("Group(%v) should succeed", g)
			}
		}
		before := m.String()

		m.Set(ExistingGroups(m, elements), elements)
		if after := m.String(); after != before {
			t.Fatalf("round trip changed the tree:\n%s\nwant\n%s", after, before)
		}
	})
}

func TestExistingGroupsOncePerGroup(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements, groups := drawTwoLevel(t)
		m := NewManager(groups, elements)

		seen := make(map[int]bool)
		for _, g := range ExistingGroups(m, elements) {
			for _, e := range g {
				if seen[e] {
					t.Fatalf("element %d reported twice", e)
				}
				seen[e] = true
			}
		}
	})
}

func TestExistingGroupsAddedElementStaysLeaf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		elements, groups := drawTwoLevel(t)
		m := NewManager(groups, elements)
		want := m.Groups()

		added := append(slices.Clone(elements), len(elements))
		m.Set(ExistingGroups(m, added), added)

		if got := m.Groups(); !reflect.DeepEqual(got, want) {
			t.Fatalf("Groups = %v, want %v", got, want)
		}
		leaf := m.ToChilds([]int{len(elements)})
		if len(leaf) != 1 || leaf[0].Depth != 1 {
			t.Fatal("added element should be a top-level leaf")
		}
	})
}
