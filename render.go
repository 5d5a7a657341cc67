package grove

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Debug font metrics of ebitenutil.DebugPrint.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// Draw paints visible boxes in painter order (DFS, ZIndex-sorted). World
// transforms are refreshed first so nodes moved since the last Update draw
// at their new place.
func (s *Scene) Draw(screen *ebiten.Image) {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.refreshTransforms()
	s.drawBuf = s.collectDrawable(s.root, s.drawBuf[:0])

	if s.debug {
		stats.collectTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, n := range s.drawBuf {
		drawBox(screen, n)
		stats.boxCount++
		if n.Label != "" {
			drawLabel(screen, n)
			stats.labelCount++
		}
	}

	if s.debug {
		stats.drawTime = time.Since(t0)
		s.debugLog(stats)
	}
}

// collectDrawable appends the visible boxes under n in painter order.
// Invisible subtrees and fully transparent nodes are skipped.
func (s *Scene) collectDrawable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.Type == NodeTypeBox && n.worldAlpha > 0 {
		buf = append(buf, n)
	}
	for _, child := range s.paintOrder(n) {
		buf = s.collectDrawable(child, buf)
	}
	return buf
}

// paintOrder returns n's children sorted by ZIndex, rebuilding the cached
// order when it is stale.
func (s *Scene) paintOrder(n *Node) []*Node {
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		return n.sortedChildren
	}
	return n.children
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func (s *Scene) rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	// Stable insertion sort by ZIndex.
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// boxGeoM maps the unit pixel onto the node's world-space box.
func boxGeoM(n *Node) ebiten.GeoM {
	var geo ebiten.GeoM
	geo.Scale(n.Width, n.Height)

	var world ebiten.GeoM
	m := n.worldTransform
	world.SetElement(0, 0, m[0])
	world.SetElement(1, 0, m[1])
	world.SetElement(0, 1, m[2])
	world.SetElement(1, 1, m[3])
	world.SetElement(0, 2, m[4])
	world.SetElement(1, 2, m[5])
	geo.Concat(world)
	return geo
}

func drawBox(screen *ebiten.Image, n *Node) {
	var op ebiten.DrawImageOptions
	op.GeoM = boxGeoM(n)
	c := n.Color
	a := float32(c.A * n.worldAlpha)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	screen.DrawImage(solidPixel(), &op)
}

// labelOrigin returns where a label of the given text starts so that it is
// centered on the node's box.
func labelOrigin(n *Node, text string) (int, int) {
	cx, cy := n.LocalToWorld(n.Width/2, n.Height/2)
	return int(cx) - len(text)*glyphWidth/2, int(cy) - glyphHeight/2
}

func drawLabel(screen *ebiten.Image, n *Node) {
	x, y := labelOrigin(n, n.Label)
	ebitenutil.DebugPrintAt(screen, n.Label, x, y)
}

// strokeRect outlines r with a one pixel line.
func strokeRect(screen *ebiten.Image, r Rect, c color.Color) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, c, false)
}
