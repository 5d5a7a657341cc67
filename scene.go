package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction and group events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
	EmitGroupEvent(event GroupEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
	// Wheel fields (valid for EventWheel)
	WheelX float64
	WheelY float64
}

// GroupEventKind identifies what changed the group tree.
type GroupEventKind uint8

const (
	GroupEventGrouped    GroupEventKind = iota // targets were moved into a new group
	GroupEventUngrouped                        // target groups were dissolved
	GroupEventReconciled                       // the tree was rebuilt after the element set changed
)

// String returns the lower-case name of the kind.
func (k GroupEventKind) String() string {
	switch k {
	case GroupEventGrouped:
		return "grouped"
	case GroupEventUngrouped:
		return "ungrouped"
	case GroupEventReconciled:
		return "reconciled"
	}
	return "unknown"
}

// GroupEvent reports a change to the group tree. Groups is the flat
// two-level view after the change, by node name.
type GroupEvent struct {
	Kind     GroupEventKind
	Groups   [][]string
	Elements int
}

// eventUpdate is the handle kind of per-frame update hooks.
const eventUpdate EventType = 255

// Scene is the top-level object that owns the node tree, input state,
// update hooks and running tweens.
type Scene struct {
	root  *Node
	store EntityStore
	debug bool

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID

	// Scripted input
	injectQueue []syntheticPointerEvent
	injectMods  KeyModifiers
	testRunner  *TestRunner

	// Per-frame work
	tweens []*TweenGroup

	// Render state
	drawBuf []*Node
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:         root,
		dragDeadZone: defaultDragDeadZone,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update advances one frame: world transforms, scripted steps, input,
// tweens, then update hooks.
func (s *Scene) Update() {
	s.step(1.0 / float64(ebiten.TPS()))
}

// step is Update with an explicit frame duration in seconds.
func (s *Scene) step(dt float64) {
	// Refresh world transforms first so hit testing has accurate positions
	// this frame.
	s.refreshTransforms()

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()

	// Input handlers move nodes; hooks see the result.
	s.refreshTransforms()

	s.advanceTweens(dt)
	s.handlers.update.fire(dt)
}

func (s *Scene) refreshTransforms() {
	updateWorldTransform(s.root, identityTransform, 1.0, false)
}

// OnUpdate registers a hook called once per frame, after input, with the
// frame duration in seconds.
func (s *Scene) OnUpdate(fn func(dt float64)) CallbackHandle {
	id := s.handlers.allocID()
	s.handlers.update.add(id, fn)
	return CallbackHandle{id: id, reg: &s.handlers, event: eventUpdate}
}

// Animate runs g every frame until it is done.
func (s *Scene) Animate(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Animating reports whether any tween is still running.
func (s *Scene) Animating() bool {
	return len(s.tweens) > 0
}

func (s *Scene) advanceTweens(dt float64) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// emitGroupEvent forwards a group tree change to the ECS bridge.
func (s *Scene) emitGroupEvent(event GroupEvent) {
	if s.store == nil {
		return
	}
	s.store.EmitGroupEvent(event)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and group
// tree changes and per-frame draw stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
