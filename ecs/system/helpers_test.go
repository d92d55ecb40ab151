package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/ecs/entity"
	"github.com/milk9111/ballblitz/steering"
)

func testCourt() steering.Court {
	return steering.Court{Min: mgl64.Vec2{-10, -6}, Max: mgl64.Vec2{10, 6}}
}

func newTestWorld() *ecs.World {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(testCourt(), ecs.DefaultPhysicsConfig()))
	return w
}

func buildAt(t *testing.T, w *ecs.World, prefab string, pos mgl64.Vec3) ecs.Entity {
	t.Helper()
	e, err := entity.BuildEntity(w, prefab, entity.Options{Position: &pos, Court: testCourt(), Seed: 7})
	if err != nil {
		t.Fatalf("build %s: %v", prefab, err)
	}
	return e
}

func locomotion(t *testing.T, w *ecs.World, e ecs.Entity) *component.Locomotion {
	t.Helper()
	l, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || l.Machine == nil {
		t.Fatalf("expected %s to have a locomotion machine", e)
	}
	return l
}

func tick(w *ecs.World, now, dt float64, systems ...ecs.System) {
	w.SetClock(ecs.Clock{Now: now, Delta: dt})
	for _, s := range systems {
		s.Update(w)
	}
}

func eventsOf(w *ecs.World, typ string) []ecs.Event {
	var out []ecs.Event
	for _, evt := range w.Events().Drain() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}
