package grove

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/grove/group"
)

// Canvas layout.
const (
	canvasX       = 40.0
	canvasY       = 80.0
	buttonY       = 10.0
	buttonHeight  = 24.0
	buttonGap     = 10.0
	statusSeconds = 1.5
	flashSeconds  = 0.3
)

var (
	cubeColor      = Color{0.95, 0.45, 0.35, 1}
	buttonColor    = Color{0.3, 0.3, 0.34, 1}
	buttonHotColor = Color{0.5, 0.5, 0.6, 1}
)

// App is the cube canvas: a group tree over the cubes, the current
// manipulation targets, and the selection and manipulation widgets that
// change them. It implements ebiten.Game.
type App struct {
	cfg AppConfig

	scene    *Scene
	canvas   *Node
	buttons  []*Node
	status   *Node
	selecto  *Selecto
	moveable *Moveable

	manager *group.Manager[*Node]
	targets []group.Target[*Node]
	cubes   []*Node
	count   int

	background Color
	showFPS    bool
	fps        fpsOverlay
}

// NewApp builds the canvas with cfg.Cubes cubes and the groups in cfg.Groups.
func NewApp(cfg AppConfig) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}
	a := &App{
		cfg:        cfg,
		scene:      NewScene(),
		background: DefaultRunConfig().Background,
	}

	a.canvas = NewContainer("elements")
	a.canvas.Interactable = true
	a.scene.Root().AddChild(a.canvas)

	x := canvasX
	for _, b := range []struct {
		label string
		width float64
		fn    func()
	}{
		{"Add Cube", 90, func() { a.AddCube() }},
		{"Group", 70, func() { a.Group() }},
		{"Ungroup", 80, func() { a.Ungroup() }},
	} {
		a.addButton(b.label, x, b.width, b.fn)
		x += b.width + buttonGap
	}
	a.status = NewBox("status", 0, 0, Color{})
	a.status.Alpha = 0
	a.status.Interactable = false
	a.status.SetPosition(x+120, buttonY+buttonHeight/2)
	a.scene.Root().AddChild(a.status)

	for range cfg.Cubes {
		a.newCube()
	}

	a.selecto = NewSelecto(a.scene)
	a.selecto.HitRate = cfg.HitRate
	a.selecto.SelectByClick = true
	a.selecto.SelectFromInside = false
	a.selecto.ToggleContinueSelect = ModShift
	a.selecto.OnDragStart(a.onSelectStart)
	a.selecto.OnSelect(a.onSelect)
	a.selecto.OnRegistered(func([]*Node) { a.reconcile() })

	a.moveable = NewMoveable(a.scene)
	a.moveable.ThrottleDrag = cfg.ThrottleDrag
	a.moveable.ThrottleRotate = cfg.ThrottleRotate
	a.moveable.ThrottleScale = cfg.ThrottleScale
	a.moveable.OnDrag(func(e DragEvent) {
		e.Target.SetTransform(e.Transform)
	})
	a.moveable.OnRenderGroup(func(e RenderGroupEvent) {
		for _, ev := range e.Events {
			ev.Target.SetTransform(ev.Transform)
		}
	})

	elements := a.selecto.SelectableElements()
	a.manager = group.NewManager[*Node](nil, elements)
	for _, g := range cfg.Groups {
		members := make([]*Node, 0, len(g))
		for _, idx := range g {
			members = append(members, elements[idx])
		}
		a.manager.Group(group.Elems(members...), true)
	}
	debugf("initial tree:\n%s", a.manager)

	a.scene.OnUpdate(a.fps.update)
	return a, nil
}

// SetRunConfig applies the window-independent parts of cfg.
func (a *App) SetRunConfig(cfg RunConfig) {
	a.background = cfg.Background
	a.showFPS = cfg.ShowFPS
	a.scene.SetDebugMode(cfg.Debug)
}

// Scene returns the canvas scene.
func (a *App) Scene() *Scene { return a.scene }

// Manager returns the group tree.
func (a *App) Manager() *group.Manager[*Node] { return a.manager }

// Targets returns the current manipulation targets.
func (a *App) Targets() []group.Target[*Node] { return a.targets }

// Cubes returns every cube in creation order.
func (a *App) Cubes() []*Node { return a.cubes }

// Selecto returns the selection widget.
func (a *App) Selecto() *Selecto { return a.selecto }

// Moveable returns the manipulation widget.
func (a *App) Moveable() *Moveable { return a.moveable }

// SetTestRunner attaches runner to the scene with this App as the target of
// its command actions.
func (a *App) SetTestRunner(runner *TestRunner) {
	runner.commands = a
	a.scene.SetTestRunner(runner)
}

// --- Commands ---

// AddCube appends a cube to the canvas. It joins the group tree as a
// standalone element once the selection widget registers it, which happens
// during the next Update.
func (a *App) AddCube() *Node {
	n := a.newCube()
	if a.cfg.AppearSeconds > 0 {
		a.scene.Animate(Appear(n, float32(a.cfg.AppearSeconds)))
	}
	return n
}

// Group moves the current targets into a new group. It reports false and
// changes nothing when the targets cannot be grouped.
func (a *App) Group() bool {
	next, ok := a.manager.Group(a.targets, a.cfg.Nested)
	if !ok {
		a.showStatus("nothing to group")
		return false
	}
	a.setTargets(next)
	a.changed(GroupEventGrouped)
	a.showStatus("grouped")
	return true
}

// Ungroup dissolves the groups among the current targets. It reports false
// and changes nothing when no target is a group.
func (a *App) Ungroup() bool {
	next, ok := a.manager.Ungroup(a.targets)
	if !ok {
		a.showStatus("nothing to ungroup")
		return false
	}
	a.setTargets(next)
	a.changed(GroupEventUngrouped)
	a.showStatus("ungrouped")
	return true
}

// reconcile rebuilds the group tree over the registered elements, keeping
// the existing two-level groups.
func (a *App) reconcile() {
	elements := a.selecto.SelectableElements()
	groups := group.ExistingGroups(a.manager, elements)
	a.manager.Set(groups, elements)
	a.setSelectedTargets(a.manager.Reselect(a.targets).Targets())
	a.changed(GroupEventReconciled)
}

func (a *App) changed(kind GroupEventKind) {
	debugf("%s: targets %v\n%s", kind, a.targets, a.manager)
	a.scene.emitGroupEvent(GroupEvent{
		Kind:     kind,
		Groups:   nodeNames(a.manager.Groups()),
		Elements: a.manager.Len(),
	})
}

// --- Selection handlers ---

func (a *App) onSelectStart(e *SelectStartEvent) {
	target := e.Node
	if target == nil {
		return
	}
	if slices.Contains(a.buttons, target) || a.moveable.IsMoveableElement(target) {
		e.Stop()
		return
	}
	for _, t := range group.Flatten(a.targets) {
		if t.Contains(target) {
			e.Stop()
			return
		}
	}
}

func (a *App) onSelect(e *SelectEvent) {
	var next group.TargetList[*Node]
	if e.IsDragStartEnd {
		a.moveable.DragStart(e.Input)
		next = a.manager.SelectCompletedChilds(a.targets, e.Added, e.Removed)
	} else {
		next = a.manager.SelectSameDepthChilds(a.targets, e.Added, e.Removed)
	}
	a.setSelectedTargets(next.Targets())
}

// setSelectedTargets makes targets current and re-asserts their elements on
// the selection widget.
func (a *App) setSelectedTargets(targets []group.Target[*Node]) {
	a.selecto.SetSelectedTargets(group.Flatten(targets))
	a.setTargets(targets)
}

func (a *App) setTargets(targets []group.Target[*Node]) {
	a.targets = targets
	a.moveable.SetTargets(targets)
}

// --- Canvas nodes ---

func (a *App) newCube() *Node {
	i := a.count
	a.count++
	size := a.cfg.CubeSize
	cell := size + a.cfg.Spacing
	col := i % a.cfg.Columns
	row := i / a.cfg.Columns

	n := NewBox("cube-"+strconv.Itoa(i), size, size, cubeColor)
	n.Label = strconv.Itoa(i)
	n.Selectable = true
	n.SetPosition(canvasX+float64(col)*cell+size/2, canvasY+float64(row)*cell+size/2)
	a.canvas.AddChild(n)
	a.cubes = append(a.cubes, n)
	return n
}

func (a *App) addButton(label string, x, width float64, fn func()) *Node {
	b := NewBox(label, width, buttonHeight, buttonColor)
	b.Label = label
	b.SetPosition(x+width/2, buttonY+buttonHeight/2)
	b.OnClick = func(ClickContext) {
		b.Color = buttonHotColor
		a.scene.Animate(TweenColor(b, buttonColor, flashSeconds, ease.OutQuad))
		fn()
	}
	a.scene.Root().AddChild(b)
	a.buttons = append(a.buttons, b)
	return b
}

// showStatus shows a short message next to the buttons that fades out.
func (a *App) showStatus(text string) {
	a.status.Label = text
	a.status.SetAlpha(1)
	a.scene.Animate(TweenAlpha(a.status, 0, statusSeconds, ease.InQuad))
}

// StatusText returns the last status message.
func (a *App) StatusText() string {
	return a.status.Label
}

// --- ebiten.Game ---

// Update handles keyboard shortcuts and advances the scene one frame.
func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		a.AddCube()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			a.Ungroup()
		} else {
			a.Group()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		a.Ungroup()
	}
	a.scene.Update()
	return nil
}

// Draw paints the canvas and the widget overlays.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(a.background.toRGBA())
	a.scene.Draw(screen)
	a.moveable.Draw(screen)
	a.selecto.Draw(screen)
	if a.showFPS {
		a.fps.draw(screen)
	}
}

// Layout follows the window size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// nodeNames maps a flat group list to node names.
func nodeNames(groups [][]*Node) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = make([]string, len(g))
		for j, n := range g {
			out[i][j] = n.Name
		}
	}
	return out
}
