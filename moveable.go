package grove

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/grove/group"
)

// Gesture identifies what a manipulation frame changes.
type Gesture uint8

const (
	GestureDrag   Gesture = iota // translate
	GestureRotate                // rotate about the bounding-box center
	GestureScale                 // uniform scale about the bounding-box center
)

// DragEvent reports the next transform of a single-element target.
type DragEvent struct {
	Gesture   Gesture
	Target    *Node
	Transform Transform
}

// RenderEvent is the next transform of one element of a grouped target.
type RenderEvent struct {
	Target    *Node
	Transform Transform
}

// RenderGroupEvent reports the next transforms of every element when the
// targets are a group or several elements.
type RenderGroupEvent struct {
	Gesture Gesture
	Events  []RenderEvent
}

const (
	handleSize   = 14
	handleOffset = 24 // distance of the rotation handle above the box
	wheelStep    = 0.1
	minScale     = 0.1
)

// Moveable drags, rotates and scales its targets. It does not move nodes
// itself: handlers registered with OnDrag and OnRenderGroup apply the
// reported transforms.
type Moveable struct {
	Draggable bool
	Rotatable bool
	Scalable  bool
	// Throttles round the gesture amount to a multiple of the step: pixels
	// for drag, degrees for rotate, scale units for scale. Zero disables.
	ThrottleDrag   float64
	ThrottleRotate float64
	ThrottleScale  float64
	// Color tints the control box and the rotation handle.
	Color Color

	scene   *Scene
	handle  *Node
	targets []group.Target[*Node]
	elems   []*Node

	// Gesture state
	armed   bool
	arm     PointerContext
	gesture Gesture
	active  bool
	moving  []*Node
	single  bool
	start   []Transform
	centerX float64
	centerY float64
	angle0  float64

	onDrag        []func(DragEvent)
	onRenderGroup []func(RenderGroupEvent)
	handles       []CallbackHandle
}

// NewMoveable attaches a manipulation widget to s. Drag, rotate and scale
// are all enabled.
func NewMoveable(s *Scene) *Moveable {
	m := &Moveable{
		Draggable: true,
		Rotatable: true,
		Scalable:  true,
		Color:     Color{0.27, 0.53, 1, 1},
		scene:     s,
	}
	m.handle = NewBox("moveable-rotation", handleSize, handleSize, m.Color)
	m.handle.HitShape = HitCircle{CenterX: handleSize / 2, CenterY: handleSize / 2, Radius: handleSize / 2}
	m.handle.Visible = false
	m.handle.SetZIndex(math.MaxInt32)
	s.Root().AddChild(m.handle)

	m.handles = append(m.handles,
		s.OnDragStart(m.dragStart),
		s.OnDrag(func(ctx DragContext) { m.dragMove(ctx, false) }),
		s.OnDragEnd(func(ctx DragContext) { m.dragMove(ctx, true) }),
		s.OnPointerUp(func(PointerContext) { m.armed = false }),
		s.OnWheel(m.wheel),
		s.OnUpdate(func(float64) { m.layout() }),
	)
	return m
}

// Close detaches the widget and removes its handle from the scene.
func (m *Moveable) Close() {
	for _, h := range m.handles {
		h.Remove()
	}
	m.handles = nil
	m.handle.Dispose()
}

// OnDrag registers a handler for frames of a single-element target.
func (m *Moveable) OnDrag(fn func(DragEvent)) {
	m.onDrag = append(m.onDrag, fn)
}

// OnRenderGroup registers a handler for frames of grouped targets.
func (m *Moveable) OnRenderGroup(fn func(RenderGroupEvent)) {
	m.onRenderGroup = append(m.onRenderGroup, fn)
}

// SetTargets replaces the targets. An in-flight gesture keeps the elements
// it started with.
func (m *Moveable) SetTargets(targets []group.Target[*Node]) {
	m.targets = targets
	m.elems = group.Flatten(targets)
	m.layout()
}

// Targets returns the current targets.
func (m *Moveable) Targets() []group.Target[*Node] {
	return m.targets
}

// IsMoveableElement reports whether n is part of the widget itself.
func (m *Moveable) IsMoveableElement(n *Node) bool {
	return n != nil && n == m.handle
}

// Handle returns the rotation handle node.
func (m *Moveable) Handle() *Node {
	return m.handle
}

// DragStart claims the press described by ctx, so that once that pointer
// passes the drag dead zone it drags the current targets wherever it was
// pressed.
func (m *Moveable) DragStart(ctx PointerContext) {
	m.armed = true
	m.arm = ctx
}

// armedFor reports whether ctx starts the drag of the claimed press.
func (m *Moveable) armedFor(ctx DragContext) bool {
	return m.armed && ctx.PointerID == m.arm.PointerID &&
		ctx.StartX == m.arm.GlobalX && ctx.StartY == m.arm.GlobalY
}

// Bounds returns the box enclosing every target element in world space.
func (m *Moveable) Bounds() Rect {
	return unionBounds(m.elems)
}

// owns reports whether n is a target element or inside one.
func (m *Moveable) owns(n *Node) bool {
	if n == nil {
		return false
	}
	for _, e := range m.elems {
		if e.Contains(n) {
			return true
		}
	}
	return false
}

func (m *Moveable) dragStart(ctx DragContext) {
	if ctx.Button != MouseButtonLeft || len(m.elems) == 0 {
		m.armed = false
		return
	}
	switch {
	case ctx.Node == m.handle && m.Rotatable:
		m.begin(GestureRotate, ctx)
	case m.armedFor(ctx) || m.owns(ctx.Node):
		if ctx.Modifiers&ModAlt != 0 && m.Rotatable {
			m.begin(GestureRotate, ctx)
		} else if m.Draggable {
			m.begin(GestureDrag, ctx)
		}
	}
	m.armed = false
}

func (m *Moveable) begin(g Gesture, ctx DragContext) {
	m.active = true
	m.gesture = g
	m.snapshot()
	c := m.Bounds().Center()
	m.centerX, m.centerY = c.X, c.Y
	m.angle0 = math.Atan2(ctx.StartY-c.Y, ctx.StartX-c.X)
}

func (m *Moveable) dragMove(ctx DragContext, end bool) {
	if !m.active {
		return
	}
	switch m.gesture {
	case GestureDrag:
		dx := throttle(ctx.GlobalX-ctx.StartX, m.ThrottleDrag)
		dy := throttle(ctx.GlobalY-ctx.StartY, m.ThrottleDrag)
		m.emit(GestureDrag, func(_ *Node, t Transform) Transform {
			t.X += dx
			t.Y += dy
			return t
		})
	case GestureRotate:
		a := math.Atan2(ctx.GlobalY-m.centerY, ctx.GlobalX-m.centerX) - m.angle0
		a = throttle(a*180/math.Pi, m.ThrottleRotate) * math.Pi / 180
		sin, cos := math.Sincos(a)
		m.emit(GestureRotate, func(e *Node, t Transform) Transform {
			cx, cy := m.localCenter(e)
			px, py := t.X-cx, t.Y-cy
			t.X = cx + px*cos - py*sin
			t.Y = cy + px*sin + py*cos
			t.Rotation += a
			return t
		})
	}
	if end {
		m.active = false
	}
}

func (m *Moveable) wheel(ctx WheelContext) {
	if !m.Scalable || m.active || len(m.elems) == 0 || !m.owns(ctx.Node) || ctx.WheelY == 0 {
		return
	}
	factor := max(1+wheelStep*ctx.WheelY, minScale)
	m.snapshot()
	c := m.Bounds().Center()
	m.centerX, m.centerY = c.X, c.Y
	m.emit(GestureScale, func(e *Node, t Transform) Transform {
		cx, cy := m.localCenter(e)
		sx := max(throttle(t.ScaleX*factor, m.ThrottleScale), minScale)
		sy := max(throttle(t.ScaleY*factor, m.ThrottleScale), minScale)
		t.X = scaleAbout(cx, t.X, t.ScaleX, sx)
		t.Y = scaleAbout(cy, t.Y, t.ScaleY, sy)
		t.ScaleX, t.ScaleY = sx, sy
		return t
	})
}

// scaleAbout moves p, which belongs to a node of scale from, so that it keeps
// its place relative to c at scale to. A node of zero scale has collapsed
// onto p and stays there.
func scaleAbout(c, p, from, to float64) float64 {
	if from == 0 {
		return p
	}
	return c + (p-c)*to/from
}

// snapshot records the elements a gesture moves and their starting
// transforms. Target changes during the gesture do not affect it.
func (m *Moveable) snapshot() {
	m.moving = append(m.moving[:0], m.elems...)
	m.single = len(m.targets) == 1 && !m.targets[0].IsGroup()
	m.start = m.start[:0]
	for _, e := range m.moving {
		m.start = append(m.start, TransformOf(e))
	}
}

// localCenter converts the gesture center into e's parent space, where its
// X and Y live.
func (m *Moveable) localCenter(e *Node) (float64, float64) {
	if e.Parent == nil {
		return m.centerX, m.centerY
	}
	return e.Parent.WorldToLocal(m.centerX, m.centerY)
}

// emit computes the next transform of every element from its gesture start
// and reports it.
func (m *Moveable) emit(g Gesture, next func(*Node, Transform) Transform) {
	n := len(m.moving)
	if n == 0 {
		return
	}
	if m.single {
		ev := DragEvent{Gesture: g, Target: m.moving[0], Transform: next(m.moving[0], m.start[0])}
		for _, fn := range m.onDrag {
			fn(ev)
		}
		return
	}
	ev := RenderGroupEvent{Gesture: g, Events: make([]RenderEvent, n)}
	for i := range n {
		ev.Events[i] = RenderEvent{Target: m.moving[i], Transform: next(m.moving[i], m.start[i])}
	}
	for _, fn := range m.onRenderGroup {
		fn(ev)
	}
}

// layout places the rotation handle above the control box.
func (m *Moveable) layout() {
	if len(m.elems) == 0 || !m.Rotatable {
		m.handle.Visible = false
		return
	}
	b := m.Bounds()
	m.handle.Visible = true
	m.handle.Color = m.Color
	m.handle.SetPosition(b.X+b.Width/2, b.Y-handleOffset)
}

// Draw paints the control box, one outline per grouped target and the
// rotation handle's stem.
func (m *Moveable) Draw(screen *ebiten.Image) {
	if len(m.elems) == 0 {
		return
	}
	c := m.Color.toRGBA()
	if len(m.targets) > 1 || (len(m.targets) == 1 && m.targets[0].IsGroup()) {
		faint := Color{m.Color.R, m.Color.G, m.Color.B, 0.5}.toRGBA()
		for _, t := range m.targets {
			strokeRect(screen, unionBounds(t.Flatten()), faint)
		}
	}
	b := m.Bounds()
	strokeRect(screen, b, c)
	if m.Rotatable {
		cx := float32(b.X + b.Width/2)
		vector.StrokeLine(screen, cx, float32(b.Y), cx, float32(b.Y-handleOffset), 1, c, false)
	}
}

// throttle rounds v to a multiple of step.
func throttle(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
