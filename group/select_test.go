package group

import (
	"reflect"
	"testing"
)

func TestSelectSameDepthChilds(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target[string]
		added   []string
		removed []string
		want    []Target[string]
	}{
		{
			name:  "member selects its group",
			added: []string{"a"},
			want:  []Target[string]{NestElems("a", "b")},
		},
		{
			name:  "mixed band in tree order",
			added: []string{"d", "c", "a"},
			want:  []Target[string]{NestElems("a", "b"), Elem("c"), NestElems("d", "e")},
		},
		{
			name:    "group stays while one member remains",
			targets: []Target[string]{NestElems("a", "b")},
			removed: []string{"a"},
			want:    []Target[string]{NestElems("a", "b")},
		},
		{
			name:    "group leaves with all members",
			targets: []Target[string]{NestElems("a", "b"), Elem("c")},
			removed: []string{"a", "b"},
			want:    []Target[string]{Elem("c")},
		},
		{
			name:    "drilled selection keeps its depth",
			targets: []Target[string]{Elem("a")},
			added:   []string{"b"},
			want:    Elems("a", "b"),
		},
		{
			name:    "shallow leaf joins a deep selection",
			targets: []Target[string]{Elem("d")},
			added:   []string{"f"},
			want:    Elems("d", "f"),
		},
		{
			name:  "unknown elements are ignored",
			added: []string{"zz"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDemoManager(t)
			got := m.SelectSameDepthChilds(tt.targets, tt.added, tt.removed).Targets()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectSameDepthChilds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectCompletedChilds(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target[string]
		added   []string
		removed []string
		want    []Target[string]
	}{
		{
			name:  "click on a member selects the group",
			added: []string{"d"},
			want:  []Target[string]{NestElems("d", "e")},
		},
		{
			name:    "continue select appends",
			targets: []Target[string]{NestElems("a", "b")},
			added:   []string{"c"},
			want:    []Target[string]{NestElems("a", "b"), Elem("c")},
		},
		{
			name:    "removed member drops its group",
			targets: []Target[string]{NestElems("a", "b"), Elem("c")},
			removed: []string{"a"},
			want:    []Target[string]{Elem("c")},
		},
		{
			name:    "deep target is kept as is",
			targets: []Target[string]{Elem("a")},
			want:    []Target[string]{Elem("a")},
		},
		{
			name:    "added and removed cancel",
			added:   []string{"c"},
			removed: []string{"c"},
			want:    nil,
		},
		{
			name:    "selecting a group covers its selected member",
			targets: []Target[string]{Elem("a")},
			added:   []string{"b"},
			want:    []Target[string]{NestElems("a", "b")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDemoManager(t)
			got := m.SelectCompletedChilds(tt.targets, tt.added, tt.removed).Targets()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectCompletedChilds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReselect(t *testing.T) {
	nested := []Target[string]{Nest(NestElems("a", "b"), Elem("c"))}
	tests := []struct {
		name     string
		targets  []Target[string]
		elements []string
		want     []Target[string]
	}{
		{
			name:     "flattened group reselects its elements",
			targets:  nested,
			elements: cubes,
			want:     Elems("a", "b", "c"),
		},
		{
			name:     "surviving targets are kept",
			targets:  []Target[string]{NestElems("d", "e"), Elem("f")},
			elements: cubes,
			want:     []Target[string]{NestElems("d", "e"), Elem("f")},
		},
		{
			name:     "removed elements are left out",
			targets:  nested,
			elements: []string{"a", "c", "d", "e", "f"},
			want:     Elems("a", "c"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDemoManager(t)
			if _, ok := m.Group(nested[0].Children(), true); !ok {
				t.Fatal("Group should succeed")
			}
			m.Set(ExistingGroups(m, tt.elements), tt.elements)

			got := m.Reselect(tt.targets).Targets()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reselect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetListFlatten(t *testing.T) {
	m := newDemoManager(t)
	list := m.SelectSameDepthChilds(nil, []string{"e", "c"}, nil)
	if list.Len() != 2 {
		t.Fatalf("Len = %d, want 2", list.Len())
	}
	if got := list.Flatten(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("Flatten = %v, want [c d e]", got)
	}
}
