package system

import (
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

// PhysicsSystem runs one fixed step: machine physics ticks, the cp space,
// then transform sync and hit reporting.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	clock := w.Clock()
	if clock.Delta <= 0 {
		return
	}

	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.AgentBodyComponent.Kind(), func(e ecs.Entity, l *component.Locomotion, b *component.AgentBody) {
		airborne := !b.Grounded()
		l.Machine.PhysicsTick(clock.Now, clock.Delta)
		if airborne && b.Grounded() {
			w.Events().Push(ecs.Event{Type: ecs.EventLanded, Data: ecs.EntityEvent{Entity: e}})
		}
	})

	pw := w.PhysicsWorld()
	pw.Step(clock.Delta)

	ecs.ForEach2(w, component.AgentBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.AgentBody, t *component.Transform) {
		t.Position = b.Position()
	})
	ecs.ForEach2(w, component.BallComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.Ball, t *component.Transform) {
		t.Position = b.Position()
	})

	for _, hit := range pw.DrainHits() {
		w.Events().Push(ecs.Event{Type: ecs.EventBallHit, Data: ecs.BallHitEvent{Ball: hit.Ball, Agent: hit.Agent}})
	}
}
