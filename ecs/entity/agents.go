package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

func NewDodgerAt(w *ecs.World, prefabPath string, pos mgl64.Vec3, opts Options) (ecs.Entity, error) {
	opts.Position = &pos
	e, err := BuildEntity(w, prefabPath, opts)
	if err != nil {
		return 0, fmt.Errorf("dodger: %w", err)
	}
	return e, nil
}

func NewThrowerAt(w *ecs.World, prefabPath string, pos mgl64.Vec3, opts Options) (ecs.Entity, error) {
	opts.Position = &pos
	e, err := BuildEntity(w, prefabPath, opts)
	if err != nil {
		return 0, fmt.Errorf("thrower: %w", err)
	}
	if !ecs.Has(w, e, component.ThrowerTagComponent.Kind()) {
		destroy(w, e)
		return 0, fmt.Errorf("thrower: prefab %q has no thrower_tag", prefabPath)
	}
	return e, nil
}

// Respawn puts an agent back at pos facing yaw, with its machine and
// steering state cleared.
func Respawn(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, facing mgl64.Quat) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Position = pos
		t.Facing = facing
	}
	if b, ok := ecs.Get(w, e, component.AgentBodyComponent.Kind()); ok {
		b.Teleport(pos)
		b.SetHeading(facing)
	}
	if l, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok && l.Machine != nil {
		l.Machine.Reset()
		l.Last = l.Machine.Current()
	}
	if s, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok {
		s.Engine.Reset()
	}
	if th, ok := ecs.Get(w, e, component.ThrowerComponent.Kind()); ok {
		th.Active = false
		th.Thrown = false
		th.Elapsed = 0
	}
}
