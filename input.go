package grove

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node // last node the pointer was hovering over (for enter/leave)
	dragging  bool
	button    MouseButton // button captured at press time
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

// handlerList keeps registration order. Removal compacts the slice.
type handlerList[T any] []handler[T]

func (l *handlerList[T]) add(id uint32, fn func(T)) {
	*l = append(*l, handler[T]{id: id, fn: fn})
}

func (l *handlerList[T]) remove(id uint32) {
	s := *l
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[T]{}
			*l = s[:len(s)-1]
			return
		}
	}
}

// fire calls every handler with ctx. Handlers registered during the call
// are not invoked until the next event.
func (l handlerList[T]) fire(ctx T) {
	for _, h := range l {
		h.fn(ctx)
	}
}

type handlerRegistry struct {
	pointerDown  handlerList[PointerContext]
	pointerUp    handlerList[PointerContext]
	pointerMove  handlerList[PointerContext]
	pointerEnter handlerList[PointerContext]
	pointerLeave handlerList[PointerContext]
	click        handlerList[ClickContext]
	dragStart    handlerList[DragContext]
	drag         handlerList[DragContext]
	dragEnd      handlerList[DragContext]
	wheel        handlerList[WheelContext]
	update       handlerList[float64]
	nextID       uint32
}

func (r *handlerRegistry) allocID() uint32 {
	r.nextID++
	return r.nextID
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown.remove(h.id)
	case EventPointerUp:
		h.reg.pointerUp.remove(h.id)
	case EventPointerMove:
		h.reg.pointerMove.remove(h.id)
	case EventPointerEnter:
		h.reg.pointerEnter.remove(h.id)
	case EventPointerLeave:
		h.reg.pointerLeave.remove(h.id)
	case EventClick:
		h.reg.click.remove(h.id)
	case EventDragStart:
		h.reg.dragStart.remove(h.id)
	case EventDrag:
		h.reg.drag.remove(h.id)
	case EventDragEnd:
		h.reg.dragEnd.remove(h.id)
	case EventWheel:
		h.reg.wheel.remove(h.id)
	case eventUpdate:
		h.reg.update.remove(h.id)
	}
}

// --- Scene-level event registration ---

// OnPointerDown registers a scene-level callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.pointerDown.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerDown}
}

// OnPointerUp registers a scene-level callback for pointer up events.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.pointerUp.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerUp}
}

// OnPointerMove registers a scene-level callback for pointer move events.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.pointerMove.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerMove}
}

// OnPointerEnter registers a scene-level callback for pointer enter events.
// Fired when the pointer moves over a new node (or from nil to a node).
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.pointerEnter.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerEnter}
}

// OnPointerLeave registers a scene-level callback for pointer leave events.
// Fired when the pointer leaves a node (moves to a different node or to empty space).
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.pointerLeave.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerLeave}
}

// OnClick registers a scene-level callback for click events.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.click.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventClick}
}

// OnDragStart registers a scene-level callback for drag start events.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.dragStart.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragStart}
}

// OnDrag registers a scene-level callback for drag events.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.drag.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDrag}
}

// OnDragEnd registers a scene-level callback for drag end events.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.dragEnd.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragEnd}
}

// OnWheel registers a scene-level callback for mouse wheel events.
func (s *Scene) OnWheel(fn func(WheelContext)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.wheel.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: EventWheel}
}

// CapturePointer routes all events for pointerID to the given node.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's Width x Height box.
// Containers with no HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable nodes to buf. Skips Visible=false or
// Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}

	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}

	if len(n.children) == 0 {
		return buf
	}
	for _, child := range s.paintOrder(n) {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Scene.Update() to handle mouse and touch input.
// A queued synthetic event replaces real mouse input for the frame.
func (s *Scene) processInput() {
	mods := readModifiers()
	if s.processInjectedInput(mods) {
		return
	}
	s.processMousePointer(mods)
	s.processTouchPointers(mods)
	s.processWheel(mods)
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	// If pointer is already down the stored button wins, so the button
	// cannot change mid-interaction.
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}

	s.processPointer(0, float64(mx), float64(my), pressed, button, mods)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft, mods)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, mods)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processWheel fires wheel handlers for the node under the mouse pointer.
func (s *Scene) processWheel(mods KeyModifiers) {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	ps := &s.pointers[0]
	s.fireWheel(s.hitTest(ps.lastX, ps.lastY), ps.lastX, ps.lastY, wx, wy, mods)
}

// processPointer runs the pointer state machine for a single pointer.
func (s *Scene) processPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointers[pointerID]

	// Determine target node: captured node or hit test.
	var target *Node
	if s.captured[pointerID] != nil {
		target = s.captured[pointerID]
	} else {
		target = s.hitTest(wx, wy)
	}

	// Fire hover enter/leave when the hovered node changes.
	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.firePointer(EventPointerLeave, ps.hoverNode, pointerID, wx, wy, button, mods)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, pointerID, wx, wy, button, mods)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX = wx
		ps.startY = wy
		ps.lastX = wx
		ps.lastY = wy
		ps.hitNode = target
		ps.dragging = false

		s.firePointer(EventPointerDown, target, pointerID, wx, wy, ps.button, mods)
	case !pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hitNode, pointerID, wx, wy, ps.startX, ps.startY,
				wx-ps.lastX, wy-ps.lastY, ps.button, mods)
		} else if ps.hitNode != nil && ps.hitNode == target {
			s.firePointer(EventClick, target, pointerID, wx, wy, ps.button, mods)
		}

		s.firePointer(EventPointerUp, target, pointerID, wx, wy, ps.button, mods)

		// Auto-release capture.
		s.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
		ps.lastX = wx
		ps.lastY = wy
	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging {
				dx := wx - ps.startX
				dy := wy - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(EventDragStart, ps.hitNode, pointerID, wx, wy, ps.startX, ps.startY,
						wx-ps.startX, wy-ps.startY, ps.button, mods)
				}
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hitNode, pointerID, wx, wy, ps.startX, ps.startY,
					wx-ps.lastX, wy-ps.lastY, ps.button, mods)
			}
		}
		ps.lastX = wx
		ps.lastY = wy
	default:
		// Hover move.
		if wx != ps.lastX || wy != ps.lastY {
			s.firePointer(EventPointerMove, target, pointerID, wx, wy, button, mods)
			ps.lastX = wx
			ps.lastY = wy
		}
	}
}

// --- Event dispatch ---

func (s *Scene) pointerContext(node *Node, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) PointerContext {
	ctx := PointerContext{
		Node: node, GlobalX: wx, GlobalY: wy,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
	}
	return ctx
}

// firePointer dispatches a pointer or click event: scene-level handlers
// first, then the per-node callback, then the ECS bridge.
func (s *Scene) firePointer(event EventType, node *Node, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) {
	ctx := s.pointerContext(node, pointerID, wx, wy, button, mods)

	var list handlerList[PointerContext]
	var perNode func(PointerContext)
	switch event {
	case EventPointerDown:
		list = s.handlers.pointerDown
		if node != nil {
			perNode = node.OnPointerDown
		}
	case EventPointerUp:
		list = s.handlers.pointerUp
		if node != nil {
			perNode = node.OnPointerUp
		}
	case EventPointerMove:
		list = s.handlers.pointerMove
		if node != nil {
			perNode = node.OnPointerMove
		}
	case EventPointerEnter:
		list = s.handlers.pointerEnter
		if node != nil {
			perNode = node.OnPointerEnter
		}
	case EventPointerLeave:
		list = s.handlers.pointerLeave
		if node != nil {
			perNode = node.OnPointerLeave
		}
	case EventClick:
		list = s.handlers.click
		if node != nil {
			perNode = node.OnClick
		}
	}
	list.fire(ctx)
	if perNode != nil {
		perNode(ctx)
	}
	s.emitInteractionEvent(event, ctx, DragContext{}, 0, 0)
}

func (s *Scene) fireDrag(event EventType, node *Node, pointerID int, wx, wy, startX, startY, deltaX, deltaY float64, button MouseButton, mods KeyModifiers) {
	ctx := DragContext{
		PointerContext: s.pointerContext(node, pointerID, wx, wy, button, mods),
		StartX:         startX, StartY: startY,
		DeltaX: deltaX, DeltaY: deltaY,
	}

	var list handlerList[DragContext]
	var perNode func(DragContext)
	switch event {
	case EventDragStart:
		list = s.handlers.dragStart
		if node != nil {
			perNode = node.OnDragStart
		}
	case EventDrag:
		list = s.handlers.drag
		if node != nil {
			perNode = node.OnDrag
		}
	case EventDragEnd:
		list = s.handlers.dragEnd
		if node != nil {
			perNode = node.OnDragEnd
		}
	}
	list.fire(ctx)
	if perNode != nil {
		perNode(ctx)
	}
	s.emitInteractionEvent(event, ctx.PointerContext, ctx, 0, 0)
}

func (s *Scene) fireWheel(node *Node, wx, wy, wheelX, wheelY float64, mods KeyModifiers) {
	ctx := WheelContext{
		PointerContext: s.pointerContext(node, 0, wx, wy, MouseButtonMiddle, mods),
		WheelX:         wheelX,
		WheelY:         wheelY,
	}
	s.handlers.wheel.fire(ctx)
	s.emitInteractionEvent(EventWheel, ctx.PointerContext, DragContext{}, wheelX, wheelY)
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(eventType EventType, ctx PointerContext, drag DragContext, wheelX, wheelY float64) {
	if s.store == nil || ctx.Node == nil || ctx.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      eventType,
		EntityID:  ctx.EntityID,
		GlobalX:   ctx.GlobalX,
		GlobalY:   ctx.GlobalY,
		LocalX:    ctx.LocalX,
		LocalY:    ctx.LocalY,
		Button:    ctx.Button,
		Modifiers: ctx.Modifiers,
		StartX:    drag.StartX,
		StartY:    drag.StartY,
		DeltaX:    drag.DeltaX,
		DeltaY:    drag.DeltaY,
		WheelX:    wheelX,
		WheelY:    wheelY,
	})
}
