package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/ecs/entity"
)

const throwHeight = 1.5

// ThrowSystem runs the throw sequence: the machine is restricted and the
// throw clip played, the ball is released after Delay, and control returns
// Recover seconds later.
type ThrowSystem struct {
	Ball entity.BallOptions
}

func NewThrowSystem(ball entity.BallOptions) *ThrowSystem {
	return &ThrowSystem{Ball: ball}
}

func (s *ThrowSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Clock().Delta

	ecs.ForEach2(w, component.ThrowerComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, th *component.Thrower, l *component.Locomotion) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || l.Machine == nil {
			return
		}
		if th.Ready > 0 {
			th.Ready -= dt
		}

		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok && in.ThrowPressed {
			in.ThrowPressed = false
			if !th.Active && th.Ready <= 0 {
				th.Active = true
				th.Thrown = false
				th.Elapsed = 0
				th.Target = forwardPoint(t, 10)
				if in.HasAim {
					th.Target = in.Aim
				}
				l.Machine.Restrict()
				l.Machine.PlayAnimation(th.Clip)
			}
		}
		if !th.Active {
			return
		}

		th.Elapsed += dt
		if !th.Thrown && th.Elapsed >= th.Delay {
			th.Thrown = true
			s.release(w, e, t, th)
		}
		if th.Elapsed >= th.Delay+th.Recover {
			th.Active = false
			th.Ready = th.Cooldown
			l.Machine.Unrestrict()
		}
	})
}

func (s *ThrowSystem) release(w *ecs.World, e ecs.Entity, t *component.Transform, th *component.Thrower) {
	origin := t.Position.Add(mgl64.Vec3{0, throwHeight, 0}).Add(forward(t).Mul(0.5))
	dir := th.Target.Sub(origin)
	dir[1] = 0
	if dir.LenSqr() < 0.0001 {
		dir = forward(t)
	}
	vel := dir.Normalize().Mul(th.Force)
	vel[1] = th.Lift

	ball, ok := entity.SpawnBall(w, origin, vel, s.Ball)
	if !ok {
		return
	}
	w.Events().Push(ecs.Event{Type: ecs.EventBallThrown, Data: ecs.BallThrownEvent{Ball: ball, Thrower: e}})
}

func forward(t *component.Transform) mgl64.Vec3 {
	q := t.Facing
	if q.Len() < 1e-9 {
		q = mgl64.QuatIdent()
	}
	f := q.Rotate(mgl64.Vec3{0, 0, 1})
	f[1] = 0
	if f.LenSqr() < 1e-9 {
		return mgl64.Vec3{0, 0, 1}
	}
	return f.Normalize()
}

func forwardPoint(t *component.Transform, dist float64) mgl64.Vec3 {
	return t.Position.Add(forward(t).Mul(dist))
}
