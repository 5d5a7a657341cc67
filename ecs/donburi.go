package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for grove interaction events.
// Subscribe to this in your ECS systems to receive pointer, drag, and wheel events.
var InteractionEventType = events.NewEventType[grove.InteractionEvent]()

// GroupEventType is the Donburi event type for group tree changes: grouping,
// ungrouping and the rebuild that follows a new cube.
var GroupEventType = events.NewEventType[grove.GroupEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are queued on their event type and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) grove.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event grove.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

func (s *donburiStore) EmitGroupEvent(event grove.GroupEvent) {
	GroupEventType.Publish(s.world, event)
}
