package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

// BallOptions describe a thrown ball.
type BallOptions struct {
	Tag    string
	Radius float64
	Mass   float64
	TTL    float64
}

// SpawnBall creates a ball entity flying with vel. It needs a physics world.
func SpawnBall(w *ecs.World, pos, vel mgl64.Vec3, opts BallOptions) (ecs.Entity, bool) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, false
	}
	if opts.Tag == "" {
		opts.Tag = "Ball"
	}
	e := ecs.CreateEntity(w)
	ball := pw.AddBall(e, opts.Tag, pos, vel, opts.Radius, opts.Mass)
	if ball == nil {
		ecs.DestroyEntity(w, e)
		return 0, false
	}
	_ = ecs.Add(w, e, component.BallComponent.Kind(), ball)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: ball.Position(), Facing: mgl64.QuatIdent()})
	if opts.TTL > 0 {
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: opts.TTL})
	}
	return e, true
}
