package grove

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// SelectStartEvent is passed to OnDragStart handlers when a press begins a
// selection gesture. Calling Stop hands the gesture to someone else; no
// selection happens for it.
type SelectStartEvent struct {
	PointerContext
	stopped bool
}

// Stop cancels the selection gesture.
func (e *SelectStartEvent) Stop() {
	e.stopped = true
}

// Stopped reports whether a handler called Stop.
func (e *SelectStartEvent) Stopped() bool {
	return e.stopped
}

// SelectEvent reports a change of the selected set.
type SelectEvent struct {
	// Selected is the full selection after the change, in tree order.
	Selected []*Node
	Added    []*Node
	Removed  []*Node
	// IsDragStartEnd is true when the selection was made by pressing on an
	// element; the rest of the gesture is free to become a drag.
	IsDragStartEnd bool
	// Input is the pointer event that caused the change.
	Input PointerContext
}

// Selecto is a rubber-band and click selection widget over the scene's
// Selectable nodes.
type Selecto struct {
	// HitRate is the percentage of an element's area the band must cover.
	// Zero selects on any overlap.
	HitRate float64
	// SelectByClick selects the element under a press.
	SelectByClick bool
	// SelectFromInside lets a band start on top of an element. When false a
	// press on an element selects it by click instead.
	SelectFromInside bool
	// ToggleContinueSelect is the modifier that keeps the current selection
	// and toggles elements in and out of it.
	ToggleContinueSelect KeyModifiers
	// BandColor tints the rubber band.
	BandColor Color

	scene      *Scene
	selectable []*Node
	registered map[*Node]bool
	selected   []*Node

	// Band gesture
	active        bool
	continueSel   bool
	startX        float64
	startY        float64
	curX          float64
	curY          float64
	startSelected []*Node

	onDragStart  []func(*SelectStartEvent)
	onSelect     []func(*SelectEvent)
	onRegistered []func(added []*Node)
	handles      []CallbackHandle
}

// NewSelecto attaches a selection widget to s. The nodes that are already
// selectable are registered immediately, without acknowledgment.
func NewSelecto(s *Scene) *Selecto {
	sel := &Selecto{
		HitRate:              100,
		SelectByClick:        true,
		SelectFromInside:     true,
		ToggleContinueSelect: ModShift,
		BandColor:            Color{0.27, 0.53, 1, 1},
		scene:                s,
		registered:           make(map[*Node]bool),
	}
	sel.scan()
	sel.handles = append(sel.handles,
		s.OnPointerDown(sel.pointerDown),
		s.OnDrag(func(ctx DragContext) { sel.moveBand(ctx.PointerContext) }),
		s.OnPointerUp(sel.pointerUp),
		s.OnUpdate(func(float64) { sel.register() }),
	)
	return sel
}

// Close detaches the widget from its scene.
func (sel *Selecto) Close() {
	for _, h := range sel.handles {
		h.Remove()
	}
	sel.handles = nil
}

// OnDragStart registers a handler called when a press starts a gesture.
func (sel *Selecto) OnDragStart(fn func(*SelectStartEvent)) {
	sel.onDragStart = append(sel.onDragStart, fn)
}

// OnSelect registers a handler called whenever the selected set changes.
func (sel *Selecto) OnSelect(fn func(*SelectEvent)) {
	sel.onSelect = append(sel.onSelect, fn)
}

// OnRegistered registers a handler called in the frame new selectable nodes
// are first seen, after they have been added to SelectableElements.
func (sel *Selecto) OnRegistered(fn func(added []*Node)) {
	sel.onRegistered = append(sel.onRegistered, fn)
}

// SelectableElements returns the registered selectable nodes in tree order.
// The returned slice MUST NOT be mutated.
func (sel *Selecto) SelectableElements() []*Node {
	return sel.selectable
}

// Selected returns the current selection. The returned slice MUST NOT be
// mutated.
func (sel *Selecto) Selected() []*Node {
	return sel.selected
}

// SetSelectedTargets replaces the selection without firing OnSelect.
// Unregistered nodes are ignored.
func (sel *Selecto) SetSelectedTargets(nodes []*Node) {
	sel.selected = sel.selected[:0]
	for _, n := range nodes {
		if sel.registered[n] && !slices.Contains(sel.selected, n) {
			sel.selected = append(sel.selected, n)
		}
	}
}

// Dragging reports whether a band gesture is in progress.
func (sel *Selecto) Dragging() bool {
	return sel.active
}

// Band returns the current rubber band in world coordinates.
func (sel *Selecto) Band() Rect {
	return rectFromPoints(sel.startX, sel.startY, sel.curX, sel.curY)
}

// --- Registration ---

// scan re-enumerates selectable nodes and reports the ones not seen before.
// Nodes that left the tree are unregistered and dropped from the selection.
func (sel *Selecto) scan() []*Node {
	var selectable []*Node
	walkNodes(sel.scene.root, func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Selectable {
			selectable = append(selectable, n)
		}
		return true
	})
	sel.selectable = selectable

	live := make(map[*Node]bool, len(sel.selectable))
	var added []*Node
	for _, n := range sel.selectable {
		live[n] = true
		if !sel.registered[n] {
			added = append(added, n)
		}
	}
	sel.registered = live
	sel.selected = slices.DeleteFunc(sel.selected, func(n *Node) bool { return !live[n] })
	return added
}

// register runs once per frame and acknowledges newly selectable nodes.
func (sel *Selecto) register() {
	added := sel.scan()
	if len(added) == 0 {
		return
	}
	debugf("selecto: registered %v", added)
	for _, fn := range sel.onRegistered {
		fn(added)
	}
}

// --- Gesture ---

func (sel *Selecto) continueKey(mods KeyModifiers) bool {
	return sel.ToggleContinueSelect != 0 && mods&sel.ToggleContinueSelect != 0
}

func (sel *Selecto) pointerDown(ctx PointerContext) {
	if ctx.Button != MouseButtonLeft || ctx.PointerID != 0 {
		return
	}
	start := &SelectStartEvent{PointerContext: ctx}
	for _, fn := range sel.onDragStart {
		fn(start)
	}
	if start.stopped {
		return
	}

	cont := sel.continueKey(ctx.Modifiers)
	if n := ctx.Node; n != nil && sel.registered[n] && sel.SelectByClick && !sel.SelectFromInside {
		next := []*Node{n}
		if cont {
			if slices.Contains(sel.selected, n) {
				next = slices.DeleteFunc(slices.Clone(sel.selected), func(m *Node) bool { return m == n })
			} else {
				next = append(slices.Clone(sel.selected), n)
			}
		}
		sel.apply(next, ctx, true, true)
		return
	}

	sel.active = true
	sel.continueSel = cont
	sel.startX, sel.startY = ctx.GlobalX, ctx.GlobalY
	sel.curX, sel.curY = ctx.GlobalX, ctx.GlobalY
	sel.startSelected = nil
	if cont {
		sel.startSelected = slices.Clone(sel.selected)
	}
	sel.moveBand(ctx)
}

func (sel *Selecto) moveBand(ctx PointerContext) {
	if !sel.active {
		return
	}
	sel.curX, sel.curY = ctx.GlobalX, ctx.GlobalY

	inBand := sel.hits(sel.Band())
	next := inBand
	if sel.continueSel {
		next = symmetricDifference(sel.startSelected, inBand)
	}
	sel.apply(next, ctx, false, false)
}

func (sel *Selecto) pointerUp(ctx PointerContext) {
	if !sel.active || ctx.PointerID != 0 {
		return
	}
	sel.moveBand(ctx)
	sel.active = false
	sel.startSelected = nil
}

// apply diffs next against the selection and fires OnSelect. Without force
// nothing fires when the selection is unchanged.
func (sel *Selecto) apply(next []*Node, ctx PointerContext, dragStartEnd, force bool) {
	added := difference(next, sel.selected)
	removed := difference(sel.selected, next)
	if !force && len(added) == 0 && len(removed) == 0 {
		return
	}
	sel.selected = sel.inTreeOrder(next)

	ev := &SelectEvent{
		Selected:       slices.Clone(sel.selected),
		Added:          added,
		Removed:        removed,
		IsDragStartEnd: dragStartEnd,
		Input:          ctx,
	}
	for _, fn := range sel.onSelect {
		fn(ev)
	}
}

// hits returns the selectable nodes the band selects, in tree order.
func (sel *Selecto) hits(band Rect) []*Node {
	var out []*Node
	for _, n := range sel.selectable {
		if bandHits(band, n.WorldBounds(), sel.HitRate) {
			out = append(out, n)
		}
	}
	return out
}

// bandHits decides whether band selects an element with the given bounds.
// A zero-area band is a point and hits what it lies in.
func bandHits(band, bounds Rect, hitRate float64) bool {
	if band.Area() == 0 {
		return bounds.Contains(band.X, band.Y)
	}
	if !band.Intersects(bounds) {
		return false
	}
	if hitRate <= 0 {
		return true
	}
	area := bounds.Area()
	if area == 0 {
		return false
	}
	return band.Intersection(bounds).Area()*100/area >= hitRate
}

func (sel *Selecto) inTreeOrder(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range sel.selectable {
		if slices.Contains(nodes, n) {
			out = append(out, n)
		}
	}
	return out
}

// difference returns the elements of a missing from b, in a's order.
func difference(a, b []*Node) []*Node {
	var out []*Node
	for _, n := range a {
		if !slices.Contains(b, n) {
			out = append(out, n)
		}
	}
	return out
}

func symmetricDifference(a, b []*Node) []*Node {
	return append(difference(a, b), difference(b, a)...)
}

// Draw paints the rubber band while a band gesture is dragging.
func (sel *Selecto) Draw(screen *ebiten.Image) {
	if !sel.active {
		return
	}
	r := sel.Band()
	if r.Area() == 0 {
		return
	}
	c := sel.BandColor
	fill := Color{c.R, c.G, c.B, c.A * 0.2}.toRGBA()
	stroke := c.toRGBA()
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)
	vector.DrawFilledRect(screen, x, y, w, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, stroke, false)
}
