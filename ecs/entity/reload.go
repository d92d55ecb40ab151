package entity

import (
	"fmt"

	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/prefabs"
)

// ApplyTuning re-reads prefabPath and pushes its locomotion and steering
// tuning into every live entity built from it. Runtime state is kept.
func ApplyTuning(w *ecs.World, prefabPath string) (int, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, err
	}

	loco, err := prefabs.DecodeLocomotionSpec(spec.Components["locomotion"])
	if err != nil {
		return 0, fmt.Errorf("reload %s: decode locomotion: %w", prefabPath, err)
	}
	mcfg, err := loco.MotionConfig()
	if err != nil {
		return 0, fmt.Errorf("reload %s: %w", prefabPath, err)
	}
	st, err := prefabs.DecodeSteeringSpec(spec.Components["steering"])
	if err != nil {
		return 0, fmt.Errorf("reload %s: decode steering: %w", prefabPath, err)
	}
	scfg, err := st.SteeringConfig()
	if err != nil {
		return 0, fmt.Errorf("reload %s: %w", prefabPath, err)
	}

	updated := 0
	ecs.ForEach(w, component.PrefabComponent.Kind(), func(e ecs.Entity, p *component.Prefab) {
		if p.Path != prefabPath {
			return
		}
		if l, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok && l.Machine != nil {
			l.Machine.SetConfig(mcfg)
		}
		if _, has := spec.Components["steering"]; has {
			if s, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok && s.Engine != nil {
				cfg := scfg
				cfg.Court = s.Engine.Config().Court
				s.Engine.SetConfig(cfg)
			}
		}
		updated++
	})
	return updated, nil
}
