package grove

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action    string   `json:"action"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	FromX     float64  `json:"fromX,omitempty"`
	FromY     float64  `json:"fromY,omitempty"`
	ToX       float64  `json:"toX,omitempty"`
	ToY       float64  `json:"toY,omitempty"`
	Frames    int      `json:"frames,omitempty"`
	Wheel     float64  `json:"wheel,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// Commander runs the canvas commands a script can invoke directly.
// *App implements it.
type Commander interface {
	AddCube() *Node
	Group() bool
	Ungroup() bool
}

// TestRunner sequences injected input events and canvas commands across
// frames for scripted sessions. Attach to a Scene via SetTestRunner, or to an
// App via App.SetTestRunner to enable the command actions.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	commands  Commander
}

var validActions = map[string]bool{
	"click": true, "drag": true, "wheel": true, "wait": true,
	"addCube": true, "group": true, "ungroup": true,
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !validActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		for _, m := range st.Modifiers {
			if ParseModifier(m) == 0 {
				return nil, fmt.Errorf("parse test script: step %d: unknown modifier %q", i, m)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before processInput each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var mods KeyModifiers
	for _, m := range st.Modifiers {
		mods |= ParseModifier(m)
	}
	s.SetInjectModifiers(mods)
	defer s.SetInjectModifiers(0)

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		s.InjectWheel(st.X, st.Y, st.Wheel)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "addCube":
		if r.commands != nil {
			r.commands.AddCube()
		}
	case "group":
		if r.commands != nil {
			r.commands.Group()
		}
	case "ungroup":
		if r.commands != nil {
			r.commands.Ungroup()
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
