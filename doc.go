// Package grove is a small interactive canvas of cubes built on [Ebitengine].
// Cubes can be rubber-band selected, grouped, ungrouped, and dragged,
// rotated or scaled as a unit.
//
// The canvas is a retained scene graph: every visual element is a [Node] in
// a tree rooted at [Scene.Root], and a pointer state machine turns mouse
// input into click, drag and wheel callbacks. Two widgets sit on top of it:
//
//   - [Selecto] selects [Node.Selectable] nodes by click or rubber band and
//     reports what was added and removed.
//   - [Moveable] drags, rotates and scales its current targets.
//
// [App] ties them to a [group.Manager], the tree of groups over the cubes.
// Whenever a cube is added the App waits for Selecto to register it, then
// rebuilds the tree with [group.ExistingGroups] so that existing groups
// survive and the new cube starts ungrouped.
//
// # Quick start
//
//	app, err := grove.NewApp(grove.DefaultAppConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := grove.Run(app, grove.RunConfig{Title: "Cubes"}); err != nil {
//		log.Fatal(err)
//	}
//
// # Scripted sessions
//
// [LoadTestScript] reads a JSON list of steps (click, drag, wheel, wait,
// addCube, group, ungroup) that are replayed through the same input path as
// the mouse. [RunScript] plays one without opening a window:
//
//	runner, err := grove.LoadTestScript(data)
//	...
//	err = grove.RunScript(app, runner, 10_000)
//	fmt.Print(app.Manager())
//
// Interaction and group events can be forwarded to a [Donburi] world with
// the adapter in grove/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package grove
