package entity

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/motion"
	"github.com/milk9111/ballblitz/prefabs"
	"github.com/milk9111/ballblitz/steering"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

// Options adjust a prefab for the arena it is spawned into.
type Options struct {
	// Position overrides the prefab transform when set.
	Position *mgl64.Vec3
	Court    steering.Court
	Seed     int64
	// Name labels the agent in logs and the HUD. Defaults to the prefab
	// name plus the entity id.
	Name string
}

type buildContext struct {
	PrefabPath string
	Name       string
	Options    Options
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"dodger_tag":  addDodgerTag,
	"thrower_tag": addThrowerTag,
	"player_tag":  addPlayerTag,
	"input":       addInput,
	"team":        addTeam,
	"transform":   addTransform,
	"agent_body":  addAgentBody,
	"animation":   addAnimation,
	"locomotion":  addLocomotion,
	"steering":    addSteering,
	"thrower":     addThrower,
	"script":      addScript,
}

// Bodies and animators must exist before the machine that drives them.
var componentBuildOrder = []string{
	"dodger_tag",
	"thrower_tag",
	"player_tag",
	"input",
	"team",
	"transform",
	"agent_body",
	"animation",
	"locomotion",
	"steering",
	"thrower",
	"script",
}

func BuildEntity(w *ecs.World, prefabPath string, opts Options) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, prefabPath, spec, opts)
}

func BuildEntityFromSpec(w *ecs.World, prefabPath string, spec entityPrefabSpec, opts Options) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", spec.Name, e)
	}
	ctx := &buildContext{PrefabPath: prefabPath, Name: name, Options: opts}

	names := make([]string, 0, len(spec.Components))
	for k := range spec.Components {
		if _, ok := componentRegistry[k]; !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, k)
		}
		names = append(names, k)
	}
	rank := make(map[string]int, len(componentBuildOrder))
	for i, n := range componentBuildOrder {
		rank[n] = i
	}
	sort.Slice(names, func(i, j int) bool { return rank[names[i]] < rank[names[j]] })

	// an agent body needs a transform to spawn at
	if _, ok := spec.Components["transform"]; !ok {
		if err := addTransform(w, e, nil, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}
	for _, n := range names {
		if err := componentRegistry[n](w, e, spec.Components[n], ctx); err != nil {
			destroy(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, n, err)
		}
	}

	_ = ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name})
	_ = ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Path: prefabPath})
	return e, nil
}

func destroy(w *ecs.World, e ecs.Entity) {
	w.PhysicsWorld().Remove(e)
	ecs.DestroyEntity(w, e)
}

// YawRotation is the facing for a heading in degrees about +Y; 0 faces +Z.
func YawRotation(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), mgl64.Vec3{0, 1, 0})
}

func addDodgerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DodgerTagComponent.Kind(), &component.DodgerTag{})
}

func addThrowerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ThrowerTagComponent.Kind(), &component.ThrowerTag{})
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTeam(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TeamComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode team spec: %w", err)
	}
	return ecs.Add(w, e, component.TeamComponent.Kind(), &component.Team{ID: spec.ID})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	pos := mgl64.Vec3{spec.X, spec.Y, spec.Z}
	if ctx != nil && ctx.Options.Position != nil {
		pos = *ctx.Options.Position
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Facing:   YawRotation(spec.Yaw),
	})
}

func addAgentBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AgentBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode agent body spec: %w", err)
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return fmt.Errorf("agent body: world has no physics")
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("agent body: missing transform")
	}
	body := pw.AddAgent(e, t.Position, spec.Radius, spec.Mass)
	body.SetHeading(t.Facing)
	return ecs.Add(w, e, component.AgentBodyComponent.Kind(), body)
}

func addAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AnimationComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}
	defs := make([]component.AnimationDef, 0, len(spec.Clips))
	for name, def := range spec.Clips {
		if def.Duration < 0 {
			return fmt.Errorf("%w: clip %q: negative duration", prefabs.ErrInvalidSpec, name)
		}
		defs = append(defs, component.AnimationDef{Name: name, Duration: def.Duration, Loop: def.Loop})
	}
	return ecs.Add(w, e, component.AnimationComponent.Kind(), component.NewAnimation(defs))
}

func addLocomotion(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeLocomotionSpec(raw)
	if err != nil {
		return fmt.Errorf("decode locomotion spec: %w", err)
	}
	cfg, err := spec.MotionConfig()
	if err != nil {
		return err
	}

	var anim motion.Animator
	if a, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		anim = a
	}
	var body motion.Body
	if b, ok := ecs.Get(w, e, component.AgentBodyComponent.Kind()); ok {
		body = b
	}
	m := motion.NewMachineWithQueue(ctx.Name, cfg, anim, body, motion.NewCommandQueue(spec.QueueCapacity))
	return ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{
		Machine:  m,
		External: spec.External,
		Last:     m.Current(),
	})
}

func addSteering(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeSteeringSpec(raw)
	if err != nil {
		return fmt.Errorf("decode steering spec: %w", err)
	}
	cfg, err := spec.SteeringConfig()
	if err != nil {
		return err
	}
	cfg.Court = ctx.Options.Court
	seed := ctx.Options.Seed + spec.Seed + int64(e)
	engine := steering.NewEngine(cfg, rand.New(rand.NewSource(seed)))
	return ecs.Add(w, e, component.SteeringComponent.Kind(), &component.Steering{Engine: engine})
}

func addThrower(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec := prefabs.DefaultThrowerSpec()
	if err := prefabs.DecodeComponentSpecInto(raw, &spec); err != nil {
		return fmt.Errorf("decode thrower spec: %w", err)
	}
	if spec.Delay < 0 || spec.Recover < 0 || spec.Cooldown < 0 {
		return fmt.Errorf("%w: thrower timings must not be negative", prefabs.ErrInvalidSpec)
	}
	return ecs.Add(w, e, component.ThrowerComponent.Kind(), &component.Thrower{
		Clip:     spec.Clip,
		Delay:    spec.Delay,
		Recover:  spec.Recover,
		Force:    spec.Force,
		Lift:     spec.Lift,
		Cooldown: spec.Cooldown,
	})
}

func addScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode script spec: %w", err)
	}
	if spec.Path == "" {
		return fmt.Errorf("%w: script: empty path", prefabs.ErrInvalidSpec)
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Path, Vars: spec.Params})
}
