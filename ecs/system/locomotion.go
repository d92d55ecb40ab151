package system

import (
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

// LocomotionSystem runs the logic tick of every self-driven machine, and of
// externally driven machines whose driver has gone quiet.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Clock().Now

	ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, l *component.Locomotion) {
		if l.Machine == nil {
			return
		}
		if !l.External || l.Machine.Stale(now) {
			l.Machine.LogicTick(now)
		}
		reportStateChange(w, e, l)
	})
}

func reportStateChange(w *ecs.World, e ecs.Entity, l *component.Locomotion) {
	cur := l.Machine.Current()
	if cur == l.Last {
		return
	}
	w.Events().Push(ecs.Event{
		Type: ecs.EventStateChanged,
		Data: ecs.StateChangedEvent{Entity: e, From: l.Last.String(), To: cur.String()},
	})
	l.Last = cur
}
