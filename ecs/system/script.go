package system

import (
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/motion"
	"github.com/milk9111/ballblitz/prefabs"
	"github.com/milk9111/ballblitz/steering"
)

// ScriptSystem runs tengo drill scripts. Each script defines
// `update(engine, state)` and may set a global `interval` in seconds; update
// is called at most once per interval.
type ScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	params   *tengo.ImmutableMap
	interval float64
	elapsed  float64
	failed   bool
}

const scriptDispatch = `
if __phase == "update" {
	update(__engine, __state)
}
`

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{runtimes: map[ecs.Entity]*scriptRuntime{}}
}

// Reload drops compiled scripts for path, or all of them when path is empty.
// They are recompiled on the next update with fresh state.
func (s *ScriptSystem) Reload(path string) {
	if s == nil {
		return
	}
	for e, rt := range s.runtimes {
		if path == "" || scriptName(rt.path) == scriptName(path) {
			delete(s.runtimes, e)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if s.runtimes == nil {
		s.runtimes = map[ecs.Entity]*scriptRuntime{}
	}
	dt := w.Clock().Delta

	for e := range s.runtimes {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ScriptComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		rt, err := s.runtime(e, sc)
		if err != nil {
			fmt.Printf("script: entity=%s load %q error: %v\n", e, sc.Path, err)
		}
		if rt.failed {
			return
		}
		rt.elapsed += dt
		if rt.elapsed < rt.interval {
			return
		}
		engine := buildScriptEngine(w, e, rt, rt.elapsed)
		rt.elapsed = 0
		if err := rt.run("update", engine); err != nil {
			fmt.Printf("script: entity=%s update error: %v\n", e, err)
			rt.failed = true
		}
	})
}

func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.path == sc.Path {
		return rt, nil
	}
	rt, err := compileScript(sc.Path, sc.Vars)
	if err != nil {
		// held until the path changes or is reloaded
		rt = &scriptRuntime{path: sc.Path, failed: true}
	}
	s.runtimes[e] = rt
	return rt, err
}

func compileScript(path string, vars map[string]any) (*scriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	params := map[string]tengo.Object{}
	for k, v := range vars {
		obj, err := tengo.FromInterface(v)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", k, err)
		}
		params[k] = obj
	}

	rt := &scriptRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		params:   &tengo.ImmutableMap{Value: params},
	}

	// the noop pass evaluates globals such as interval
	if err := rt.run("noop", nil); err != nil {
		return nil, err
	}
	if compiled.IsDefined("interval") {
		if v, ok := objectAsFloat(compiled.Get("interval").Object()); ok && v > 0 {
			rt.interval = v
		}
	}
	return rt, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(w *ecs.World, e ecs.Entity, rt *scriptRuntime, dt float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	machine := func() *motion.Machine {
		l, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
		if !ok {
			return nil
		}
		return l.Machine
	}
	boolResult := func(ok bool) tengo.Object {
		if ok {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: dt}, nil
	}}

	values["param"] = &tengo.UserFunction{Name: "param", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		if v, ok := rt.params.Value[objectAsString(args[0])]; ok {
			return v, nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return tengo.UndefinedValue, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		if m == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		dir, ok := motion.ParseMoveDir(strings.TrimSpace(objectAsString(args[0])))
		if !ok {
			return tengo.FalseValue, nil
		}
		sprint := len(args) > 1 && !args[1].IsFalsy()
		return boolResult(m.Move(dir, mgl64.Vec2{}, sprint)), nil
	}}

	values["set_movement"] = &tengo.UserFunction{Name: "set_movement", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		if m == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectAsFloat(args[0])
		y, okY := objectAsFloat(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		sprint := len(args) > 2 && !args[2].IsFalsy()
		return boolResult(m.SetMovement(mgl64.Vec2{x, y}, sprint)), nil
	}}

	values["jump"] = &tengo.UserFunction{Name: "jump", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		return boolResult(m != nil && m.Jump()), nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		return boolResult(m != nil && m.Stop()), nil
	}}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		if m == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolResult(m.PlayAnimation(objectAsString(args[0]))), nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		m := machine()
		if m == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: m.Current().String()}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return vec3Object(t.Position), nil
	}}

	values["nearest"] = &tengo.UserFunction{Name: "nearest", Value: func(args ...tengo.Object) (tengo.Object, error) {
		kind := "dodger"
		if len(args) > 0 {
			kind = objectAsString(args[0])
		}
		if kind != "dodger" {
			return tengo.UndefinedValue, nil
		}
		self, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		best := math.Inf(1)
		var found *mgl64.Vec3
		ecs.ForEach2(w, component.DodgerTagComponent.Kind(), component.TransformComponent.Kind(), func(other ecs.Entity, _ *component.DodgerTag, t *component.Transform) {
			if other == e {
				return
			}
			if d := t.Position.Sub(self.Position).LenSqr(); d < best {
				best = d
				p := t.Position
				found = &p
			}
		})
		if found == nil {
			return tengo.UndefinedValue, nil
		}
		return vec3Object(*found), nil
	}}

	values["aim"] = &tengo.UserFunction{Name: "aim", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectAsFloat(args[0])
		z, okZ := objectAsFloat(args[1])
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !okX || !okZ || !ok {
			return tengo.FalseValue, nil
		}
		to := mgl64.Vec3{x, 0, z}.Sub(t.Position)
		to[1] = 0
		if to.LenSqr() < 0.0001 {
			return tengo.FalseValue, nil
		}
		t.Facing = steering.LookRotation(to)
		if body, ok := ecs.Get(w, e, component.AgentBodyComponent.Kind()); ok {
			body.SetHeading(t.Facing)
		}
		return tengo.TrueValue, nil
	}}

	values["throw"] = &tengo.UserFunction{Name: "throw", Value: func(args ...tengo.Object) (tengo.Object, error) {
		in, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		var target mgl64.Vec3
		for i := range target {
			v, ok := objectAsFloat(args[i])
			if !ok {
				return tengo.FalseValue, nil
			}
			target[i] = v
		}
		in.Aim = target
		in.HasAim = true
		in.ThrowPressed = true
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vec3Object(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

func scriptName(path string) string {
	s := strings.TrimSuffix(strings.TrimSpace(path), ".tengo")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
