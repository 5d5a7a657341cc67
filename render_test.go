package grove

import (
	"math"
	"testing"
)

// collectScene refreshes transforms and returns the draw list without
// touching an ebiten.Image.
func collectScene(s *Scene) []*Node {
	s.refreshTransforms()
	s.drawBuf = s.collectDrawable(s.root, s.drawBuf[:0])
	return s.drawBuf
}

func drawNames(nodes []*Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func assertNames(t *testing.T, got []*Node, want ...string) {
	t.Helper()
	names := drawNames(got)
	if len(names) != len(want) {
		t.Fatalf("draw list = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("draw list = %v, want %v", names, want)
		}
	}
}

// --- Draw list ---

func TestCollectDrawableSingleBox(t *testing.T) {
	s := NewScene()
	s.Root().AddChild(NewBox("b", 10, 10, ColorWhite))
	assertNames(t, collectScene(s), "b")
}

func TestCollectDrawableSkipsContainers(t *testing.T) {
	s := NewScene()
	c := NewContainer("c")
	c.AddChild(NewBox("inner", 10, 10, ColorWhite))
	s.Root().AddChild(c)
	assertNames(t, collectScene(s), "inner")
}

func TestCollectDrawableInvisibleSubtree(t *testing.T) {
	s := NewScene()
	c := NewContainer("c")
	c.Visible = false
	c.AddChild(NewBox("hidden", 10, 10, ColorWhite))
	s.Root().AddChild(c)
	s.Root().AddChild(NewBox("shown", 10, 10, ColorWhite))
	assertNames(t, collectScene(s), "shown")
}

func TestCollectDrawableZeroAlpha(t *testing.T) {
	tests := []struct {
		name        string
		parentAlpha float64
		childAlpha  float64
		want        int
	}{
		{"opaque", 1, 1, 1},
		{"child transparent", 1, 0, 0},
		{"parent transparent", 0, 1, 0},
		{"half", 0.5, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			c := NewContainer("c")
			c.Alpha = tt.parentAlpha
			b := NewBox("b", 10, 10, ColorWhite)
			b.Alpha = tt.childAlpha
			c.AddChild(b)
			s.Root().AddChild(c)
			if got := len(collectScene(s)); got != tt.want {
				t.Errorf("drawn = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCollectDrawableTreeOrder(t *testing.T) {
	s := NewScene()
	a := NewBox("a", 10, 10, ColorWhite)
	a.AddChild(NewBox("a1", 5, 5, ColorWhite))
	s.Root().AddChild(a)
	s.Root().AddChild(NewBox("b", 10, 10, ColorWhite))

	// Parents paint before children, siblings in insertion order.
	assertNames(t, collectScene(s), "a", "a1", "b")
}

func TestCollectDrawableZIndex(t *testing.T) {
	s := NewScene()
	a := NewBox("a", 10, 10, ColorWhite)
	b := NewBox("b", 10, 10, ColorWhite)
	c := NewBox("c", 10, 10, ColorWhite)
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	s.Root().AddChild(c)

	a.SetZIndex(2)
	c.SetZIndex(-1)
	assertNames(t, collectScene(s), "c", "b", "a")

	// Equal ZIndex keeps insertion order.
	a.SetZIndex(0)
	c.SetZIndex(0)
	assertNames(t, collectScene(s), "a", "b", "c")
}

func TestCollectDrawableReusesBuffer(t *testing.T) {
	s := NewScene()
	for range 4 {
		s.Root().AddChild(NewBox("b", 10, 10, ColorWhite))
	}
	first := collectScene(s)
	second := collectScene(s)
	if &first[0] != &second[0] {
		t.Error("draw buffer should be reused between frames")
	}
}

func TestRebuildSortedChildrenStable(t *testing.T) {
	s := NewScene()
	p := NewContainer("p")
	z := []int{3, 1, 2, 1, 3, 0}
	for i, zi := range z {
		n := NewBox(string(rune('a'+i)), 1, 1, ColorWhite)
		n.ZIndex = zi
		p.AddChild(n)
	}
	s.rebuildSortedChildren(p)

	want := "fbdcae"
	got := ""
	for _, n := range p.sortedChildren {
		got += n.Name
	}
	if got != want {
		t.Errorf("sorted = %q, want %q", got, want)
	}
	if !p.childrenSorted {
		t.Error("childrenSorted should be set")
	}
}

// --- Geometry ---

func TestBoxGeoMCorners(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		x0, y0   float64 // where the unit pixel's (0, 0) lands
		x1, y1   float64 // where (1, 1) lands
	}{
		{"axis aligned", 0, 10, 20, 50, 50},
		{"quarter turn", math.Pi / 2, 45, 15, 15, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			n := boxAt("b", 10, 20, 40, 30)
			n.SetRotation(tt.rotation)
			s.Root().AddChild(n)
			s.refreshTransforms()

			geo := boxGeoM(n)
			x, y := geo.Apply(0, 0)
			if math.Abs(x-tt.x0) > 1e-9 || math.Abs(y-tt.y0) > 1e-9 {
				t.Errorf("(0,0) -> (%v, %v), want (%v, %v)", x, y, tt.x0, tt.y0)
			}
			x, y = geo.Apply(1, 1)
			if math.Abs(x-tt.x1) > 1e-9 || math.Abs(y-tt.y1) > 1e-9 {
				t.Errorf("(1,1) -> (%v, %v), want (%v, %v)", x, y, tt.x1, tt.y1)
			}
		})
	}
}

func TestBoxGeoMFollowsParent(t *testing.T) {
	s := NewScene()
	parent := NewContainer("p")
	parent.SetPosition(100, 0)
	parent.SetScale(2, 2)
	child := boxAt("c", 0, 0, 10, 10)
	parent.AddChild(child)
	s.Root().AddChild(parent)
	s.refreshTransforms()

	x, y := boxGeoM(child).Apply(1, 1)
	if x != 120 || y != 20 {
		t.Errorf("(1,1) -> (%v, %v), want (120, 20)", x, y)
	}
}

func TestLabelOrigin(t *testing.T) {
	s := NewScene()
	n := boxAt("b", 10, 20, 40, 30)
	s.Root().AddChild(n)
	s.refreshTransforms()

	// Center is (30, 35); "abc" is 18px wide and 16px tall.
	x, y := labelOrigin(n, "abc")
	if x != 21 || y != 27 {
		t.Errorf("labelOrigin = (%d, %d), want (21, 27)", x, y)
	}
	x, _ = labelOrigin(n, "")
	if x != 30 {
		t.Errorf("empty label x = %d, want 30", x)
	}
}

func BenchmarkCollectDrawable(b *testing.B) {
	s := NewScene()
	for i := range 1000 {
		n := NewBox("b", 10, 10, ColorWhite)
		n.ZIndex = i % 7
		s.Root().AddChild(n)
	}
	s.refreshTransforms()
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		s.drawBuf = s.collectDrawable(s.root, s.drawBuf[:0])
	}
}
