package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/steering"
)

// SteeringSystem runs every steering engine once per frame and feeds the
// result to the agent's own machine. Externally driven machines are ticked
// here, right after their command is queued.
type SteeringSystem struct {
	teammates []mgl64.Vec3
}

func NewSteeringSystem() *SteeringSystem {
	return &SteeringSystem{}
}

type steeringAgent struct {
	entity ecs.Entity
	team   int
	pos    mgl64.Vec3
}

func (s *SteeringSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	clock := w.Clock()
	if clock.Delta <= 0 {
		return
	}

	var throwerPos mgl64.Vec3
	hasThrower := false
	if te, ok := w.First(component.ThrowerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, te, component.TransformComponent.Kind()); ok {
			throwerPos = t.Position
			hasThrower = true
		}
	}

	agents := make([]steeringAgent, 0, 8)
	ecs.ForEach2(w, component.SteeringComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Steering, t *component.Transform) {
		a := steeringAgent{entity: e, pos: t.Position}
		if team, ok := ecs.Get(w, e, component.TeamComponent.Kind()); ok {
			a.team = team.ID
		}
		agents = append(agents, a)
	})

	var src steering.ThreatSource
	if pw := w.PhysicsWorld(); pw != nil {
		src = pw
	}

	for _, a := range agents {
		st, ok := ecs.Get(w, a.entity, component.SteeringComponent.Kind())
		if !ok || st.Engine == nil {
			continue
		}
		t, ok := ecs.Get(w, a.entity, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		s.teammates = s.teammates[:0]
		for _, other := range agents {
			if other.entity != a.entity && other.team == a.team {
				s.teammates = append(s.teammates, other.pos)
			}
		}

		out := st.Engine.Step(clock.Now, clock.Delta, steering.Agent{
			Position:   t.Position,
			Facing:     t.Facing,
			Thrower:    throwerPos,
			HasThrower: hasThrower,
			Teammates:  s.teammates,
		}, src)
		st.Last = out
		t.Facing = out.Facing
		if body, ok := ecs.Get(w, a.entity, component.AgentBodyComponent.Kind()); ok {
			body.SetHeading(out.Facing)
		}

		l, ok := ecs.Get(w, a.entity, component.LocomotionComponent.Kind())
		if !ok || l.Machine == nil {
			continue
		}
		out.Emit(l.Machine.Queue())
		if l.External {
			l.Machine.LogicTick(clock.Now)
			reportStateChange(w, a.entity, l)
		}
	}
}
