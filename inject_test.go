package grove

import "testing"

func TestInjectClick(t *testing.T) {
	s := NewScene()
	n := boxAt("n", 0, 0, 100, 100)
	s.Root().AddChild(n)
	s.refreshTransforms()

	var clicked bool
	s.OnClick(func(ctx ClickContext) {
		clicked = true
		if ctx.Node != n {
			t.Errorf("click on %v, want n", ctx.Node)
		}
	})

	s.InjectClick(50, 50)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press.
	s.processInput()
	if len(s.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", len(s.injectQueue))
	}
	if clicked {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release.
	s.processInput()
	if len(s.injectQueue) != 0 {
		t.Fatalf("expected empty queue after frame 2, got %d", len(s.injectQueue))
	}
	if !clicked {
		t.Error("click should fire on release frame")
	}
}

func TestInjectDrag(t *testing.T) {
	s := NewScene()
	s.Root().AddChild(boxAt("n", 0, 0, 400, 400))
	s.refreshTransforms()

	var events []string
	var lastX float64
	s.OnDragStart(func(DragContext) { events = append(events, "dragstart") })
	s.OnDrag(func(ctx DragContext) {
		events = append(events, "drag")
		lastX = ctx.GlobalX
	})
	s.OnDragEnd(func(ctx DragContext) {
		events = append(events, "dragend")
		lastX = ctx.GlobalX
	})

	// Press, three moves, release.
	s.InjectDrag(10, 10, 200, 200, 5)
	if len(s.injectQueue) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(s.injectQueue))
	}
	for range 5 {
		s.processInput()
	}

	want := []string{"dragstart", "drag", "drag", "drag", "dragend"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
	if lastX != 200 {
		t.Errorf("drag ended at x=%v, want 200", lastX)
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	s := NewScene()
	s.InjectDrag(0, 0, 10, 10, 0)
	if len(s.injectQueue) != 2 {
		t.Errorf("expected press+release, got %d events", len(s.injectQueue))
	}
}

func TestInjectWheel(t *testing.T) {
	s := NewScene()
	n := boxAt("n", 0, 0, 100, 100)
	s.Root().AddChild(n)
	s.refreshTransforms()

	var got WheelContext
	calls := 0
	s.OnWheel(func(ctx WheelContext) {
		got = ctx
		calls++
	})

	s.InjectWheel(50, 50, -2)
	s.processInput()

	if calls != 1 {
		t.Fatalf("wheel handler calls = %d, want 1", calls)
	}
	if got.Node != n || got.WheelY != -2 {
		t.Errorf("wheel ctx = %+v", got)
	}
	if s.pointers[0].down {
		t.Error("a wheel event should not press the pointer")
	}
}

func TestInjectModifiers(t *testing.T) {
	s := NewScene()
	s.Root().AddChild(boxAt("n", 0, 0, 100, 100))
	s.refreshTransforms()

	var mods []KeyModifiers
	s.OnPointerDown(func(ctx PointerContext) { mods = append(mods, ctx.Modifiers) })

	s.SetInjectModifiers(ModShift | ModAlt)
	s.InjectClick(50, 50)
	s.SetInjectModifiers(0)
	s.InjectClick(50, 50)
	for range 4 {
		s.processInput()
	}

	if len(mods) != 2 {
		t.Fatalf("pointer downs = %d, want 2", len(mods))
	}
	if mods[0] != ModShift|ModAlt {
		t.Errorf("first press modifiers = %v, want shift|alt", mods[0])
	}
	if mods[1] != 0 {
		t.Errorf("second press modifiers = %v, want none", mods[1])
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewScene()
	s.InjectPress(1, 2)
	s.InjectMove(3, 4)
	s.InjectRelease(5, 6)

	want := []syntheticPointerEvent{
		{screenX: 1, screenY: 2, pressed: true, button: MouseButtonLeft},
		{screenX: 3, screenY: 4, pressed: true, button: MouseButtonLeft},
		{screenX: 5, screenY: 6, pressed: false, button: MouseButtonLeft},
	}
	if len(s.injectQueue) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(s.injectQueue), len(want))
	}
	for i, w := range want {
		if s.injectQueue[i] != w {
			t.Errorf("queue[%d] = %+v, want %+v", i, s.injectQueue[i], w)
		}
	}
}

func TestProcessInjectedInputEmptyQueue(t *testing.T) {
	s := NewScene()
	if s.processInjectedInput(0) {
		t.Error("empty queue should report no event consumed")
	}
}
