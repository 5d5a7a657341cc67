package grove

import (
	"image/color"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 20, true},
		{40, 60, true}, // edges are inside
		{25, 40, true},
		{9.9, 30, false},
		{25, 60.1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name       string
		b          Rect
		intersects bool
		overlap    Rect
	}{
		{"overlap", Rect{5, 5, 10, 10}, true, Rect{5, 5, 5, 5}},
		{"inside", Rect{2, 3, 4, 5}, true, Rect{2, 3, 4, 5}},
		{"shared edge", Rect{10, 0, 5, 5}, true, Rect{10, 0, 0, 5}},
		{"disjoint", Rect{20, 20, 5, 5}, false, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.intersects {
				t.Errorf("Intersects = %v, want %v", got, tt.intersects)
			}
			if got := a.Intersection(tt.b); got != tt.overlap {
				t.Errorf("Intersection = %+v, want %+v", got, tt.overlap)
			}
		})
	}
}

func TestRectUnionCenterArea(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: -5, Width: 5, Height: 5}
	u := a.Union(b)
	if u != (Rect{X: 0, Y: -5, Width: 25, Height: 15}) {
		t.Errorf("Union = %+v", u)
	}
	if c := u.Center(); c != (Vec2{12.5, 2.5}) {
		t.Errorf("Center = %+v", c)
	}
	if u.Area() != 375 {
		t.Errorf("Area = %v, want 375", u.Area())
	}
}

func TestRectFromPoints(t *testing.T) {
	want := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	for _, pts := range [][4]float64{
		{10, 20, 40, 60},
		{40, 60, 10, 20},
		{40, 20, 10, 60},
		{10, 60, 40, 20},
	} {
		if got := rectFromPoints(pts[0], pts[1], pts[2], pts[3]); got != want {
			t.Errorf("rectFromPoints(%v) = %+v, want %+v", pts, got, want)
		}
	}
	if got := rectFromPoints(5, 5, 5, 5); got.Area() != 0 || got.X != 5 {
		t.Errorf("degenerate rect = %+v", got)
	}
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		name string
		want KeyModifiers
	}{
		{"shift", ModShift},
		{"ctrl", ModCtrl},
		{"control", ModCtrl},
		{"alt", ModAlt},
		{"option", ModAlt},
		{"meta", ModMeta},
		{"cmd", ModMeta},
		{"command", ModMeta},
		{"Shift", 0},
		{"hyper", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseModifier(tt.name); got != tt.want {
			t.Errorf("ParseModifier(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestColorToRGBA(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want color.RGBA
	}{
		{"white", ColorWhite, color.RGBA{255, 255, 255, 255}},
		{"transparent", Color{1, 1, 1, 0}, color.RGBA{0, 0, 0, 0}},
		{"premultiplied", Color{1, 0, 0, 0.5}, color.RGBA{127, 0, 0, 127}},
		{"clamped", Color{2, -1, 0.5, 1.5}, color.RGBA{255, 0, 191, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.toRGBA(); got != tt.want {
				t.Errorf("toRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}
