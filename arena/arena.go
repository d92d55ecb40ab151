package arena

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/ecs/entity"
	"github.com/milk9111/ballblitz/ecs/system"
	"github.com/milk9111/ballblitz/prefabs"
	"github.com/milk9111/ballblitz/steering"
)

// Options choose who plays and how the thrower is driven.
type Options struct {
	// Spec names the arena prefab; empty loads arena.yaml.
	Spec string
	// Dodgers overrides the arena file's dodger count when >= 0.
	Dodgers int
	Seed    int64
	// Drill adds the scripted drill agent.
	Drill bool
	// AutoThrow hands the thrower to the autothrow script instead of the
	// player.
	AutoThrow bool
	// Input samples devices before the controller runs. Nil when headless.
	Input ecs.System
}

type spawnPoint struct {
	pos    mgl64.Vec3
	facing mgl64.Quat
}

// Arena owns a running match: the world, its two schedulers and the fixed
// step accumulator.
type Arena struct {
	Spec *prefabs.ArenaSpec
	opts Options

	World   *ecs.World
	Scripts *system.ScriptSystem
	logic   *ecs.Scheduler
	fixed   *ecs.Scheduler

	Thrower ecs.Entity
	Drill   ecs.Entity
	Dodgers []ecs.Entity

	spawns map[ecs.Entity]spawnPoint

	now         float64
	physicsTime float64
	accumulator float64
	frame       int
}

func New(opts Options) (*Arena, error) {
	spec, err := prefabs.LoadArenaSpec(opts.Spec)
	if err != nil {
		return nil, err
	}
	a := &Arena{Spec: spec, opts: opts}
	if err := a.build(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) build() error {
	spec := a.Spec
	court := spec.Court.Court()

	cfg := ecs.DefaultPhysicsConfig()
	if spec.Physics.Iterations > 0 {
		cfg.Iterations = spec.Physics.Iterations
	}
	if spec.Physics.WallThickness > 0 {
		cfg.WallThickness = spec.Physics.WallThickness
	}
	if spec.Physics.WallElasticity > 0 {
		cfg.WallElasticity = spec.Physics.WallElasticity
	}
	if spec.Physics.AgentHeight > 0 {
		cfg.AgentHeight = spec.Physics.AgentHeight
	}
	if spec.Physics.BallGravity != 0 {
		cfg.BallGravity = spec.Physics.BallGravity
	}

	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(court, cfg))
	a.World = w
	a.Scripts = system.NewScriptSystem()
	a.now, a.physicsTime, a.accumulator, a.frame = 0, 0, 0, 0
	a.Dodgers = a.Dodgers[:0]
	a.spawns = make(map[ecs.Entity]spawnPoint)

	ball := entity.BallOptions{Tag: spec.Ball.Tag, Radius: spec.Ball.Radius, Mass: spec.Ball.Mass, TTL: spec.Ball.TTL}
	a.logic = ecs.NewScheduler(
		a.opts.Input,
		system.NewControllerSystem(),
		a.Scripts,
		system.NewSteeringSystem(),
		system.NewThrowSystem(ball),
		system.NewLocomotionSystem(),
		system.NewAnimationSystem(),
		system.NewTTLSystem(),
	)
	a.fixed = ecs.NewScheduler(system.NewPhysicsSystem())

	thrower, err := entity.NewThrowerAt(w, spec.Thrower, spec.ThrowerSpawn.Vec3(), entity.Options{Court: court, Seed: a.opts.Seed, Name: "thrower"})
	if err != nil {
		return err
	}
	a.Thrower = thrower
	a.remember(thrower)
	if a.opts.AutoThrow {
		ecs.Remove(w, thrower, component.PlayerTagComponent.Kind())
		_ = ecs.Add(w, thrower, component.ScriptComponent.Kind(), &component.Script{Path: "autothrow"})
	}

	count := spec.Dodgers
	if a.opts.Dodgers >= 0 {
		count = a.opts.Dodgers
	}
	spawns := dodgerSpawns(spec, court, count, a.opts.Seed)
	for i := 0; i < count; i++ {
		e, err := entity.NewDodgerAt(w, spec.Dodger, spawns[i], entity.Options{
			Court: court,
			Seed:  a.opts.Seed,
			Name:  fmt.Sprintf("dodger-%d", i+1),
		})
		if err != nil {
			return err
		}
		a.Dodgers = append(a.Dodgers, e)
		a.remember(e)
	}

	a.Drill = 0
	if a.opts.Drill && spec.Drill != "" {
		e, err := entity.NewDodgerAt(w, spec.Drill, spec.DrillSpawn.Vec3(), entity.Options{Court: court, Seed: a.opts.Seed, Name: "drill"})
		if err != nil {
			return err
		}
		a.Drill = e
		a.remember(e)
	}
	return nil
}

func (a *Arena) remember(e ecs.Entity) {
	if t, ok := ecs.Get(a.World, e, component.TransformComponent.Kind()); ok {
		a.spawns[e] = spawnPoint{pos: t.Position, facing: t.Facing}
	}
}

// dodgerSpawns uses the listed spawns first and scatters the rest over the
// far half of the court.
func dodgerSpawns(spec *prefabs.ArenaSpec, court steering.Court, n int, seed int64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, n)
	for _, p := range spec.DodgerSpawns {
		if len(out) == n {
			return out
		}
		out = append(out, p.Vec3())
	}
	rng := rand.New(rand.NewSource(seed))
	mid := court.Center()
	for len(out) < n {
		x := mid.X() + rng.Float64()*(court.Max.X()-mid.X()-1)
		z := court.Min.Y() + 1 + rng.Float64()*(court.Max.Y()-court.Min.Y()-2)
		out = append(out, mgl64.Vec3{x, 0, z})
	}
	return out
}

// Step runs one frame of dt seconds: the logic schedule once, then as many
// fixed physics steps as the accumulator allows.
func (a *Arena) Step(dt float64) {
	if a == nil || dt <= 0 {
		return
	}
	a.frame++
	a.now += dt
	a.World.SetClock(ecs.Clock{Now: a.now, Delta: dt, Frame: a.frame})
	a.logic.Update(a.World)

	step := a.Spec.Physics.Step
	a.accumulator += dt
	for i := 0; a.accumulator >= step; i++ {
		if i >= a.Spec.Physics.MaxSteps {
			// drop the backlog
			a.accumulator = 0
			break
		}
		a.physicsTime += step
		a.World.SetClock(ecs.Clock{Now: a.physicsTime, Delta: step, Frame: a.frame})
		a.fixed.Update(a.World)
		a.accumulator -= step
	}
	a.World.SetClock(ecs.Clock{Now: a.now, Delta: dt, Frame: a.frame})
}

func (a *Arena) specName() string {
	if a.opts.Spec == "" {
		return "arena.yaml"
	}
	return a.opts.Spec
}

func (a *Arena) Now() float64 { return a.now }

func (a *Arena) Frame() int { return a.frame }

// Events drains the world's event queue.
func (a *Arena) Events() []ecs.Event {
	return a.World.Events().Drain()
}

// Reset rebuilds the match from the arena file, keeping the options.
func (a *Arena) Reset() error {
	spec, err := prefabs.LoadArenaSpec(a.opts.Spec)
	if err != nil {
		return err
	}
	a.Spec = spec
	return a.build()
}

// Respawn puts every agent back on its spawn without rebuilding the world.
// Balls in flight are left alone.
func (a *Arena) Respawn() {
	for e, sp := range a.spawns {
		entity.Respawn(a.World, e, sp.pos, sp.facing)
	}
}

// Reload applies edited prefabs and scripts. Paths are relative to the
// prefab directory, as reported by prefabs.Watcher.
func (a *Arena) Reload(paths []string) {
	for _, p := range paths {
		switch {
		case prefabs.IsScriptFile(p):
			a.Scripts.Reload(p)
			log.Printf("arena: reloaded script %s", p)
		case prefabs.IsSpecFile(p) && p == a.specName():
			if err := a.Reset(); err != nil {
				log.Printf("arena: reload %s: %v", p, err)
				continue
			}
			log.Printf("arena: rebuilt from %s", p)
		case prefabs.IsSpecFile(p):
			n, err := entity.ApplyTuning(a.World, p)
			if err != nil {
				log.Printf("arena: reload %s: %v", p, err)
				continue
			}
			log.Printf("arena: retuned %d agents from %s", n, p)
		}
	}
}
