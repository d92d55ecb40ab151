package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/steering"
)

// ControllerSystem turns the Input of player-driven agents into machine
// commands. The agent turns toward its aim point and moves relative to
// that facing.
type ControllerSystem struct{}

func NewControllerSystem() *ControllerSystem {
	return &ControllerSystem{}
}

func (c *ControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, in *component.Input, l *component.Locomotion) {
		if l.Machine == nil {
			return
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		if in.HasAim {
			if to := in.Aim.Sub(t.Position); to.X()*to.X()+to.Z()*to.Z() > 0.0001 {
				t.Facing = steering.LookRotation(to)
				if body, ok := ecs.Get(w, e, component.AgentBodyComponent.Kind()); ok {
					body.SetHeading(t.Facing)
				}
			}
		}

		q := l.Machine.Queue()
		local := LocalIntent(t.Facing, in.Move)
		if local.Len() > 0.0001 {
			q.SetMovement(local, in.Sprint)
		} else {
			q.Stop()
		}
		if in.JumpPressed {
			q.Jump()
			in.JumpPressed = false
		}
	})
}

// LocalIntent converts a world ground-plane direction (x, z) into
// (lateral, forward) relative to facing.
func LocalIntent(facing mgl64.Quat, world mgl64.Vec2) mgl64.Vec2 {
	if facing.Len() < 1e-9 {
		facing = mgl64.QuatIdent()
	}
	v := facing.Inverse().Rotate(mgl64.Vec3{world.X(), 0, world.Y()})
	return mgl64.Vec2{v.X(), v.Z()}
}
