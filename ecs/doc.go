// Package ecs provides ECS adapters for grove's event system.
//
// The primary adapter is [NewDonburiStore], which bridges grove interaction
// events (pointer, click, drag, wheel) and group tree changes into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] and
// [GroupEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	app.Scene().SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
