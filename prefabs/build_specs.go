package prefabs

import (
	"fmt"

	"github.com/milk9111/ballblitz/motion"
	"github.com/milk9111/ballblitz/steering"
	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var out T
	err := DecodeComponentSpecInto(raw, &out)
	return out, err
}

// DecodeComponentSpecInto decodes raw over out, keeping fields raw does not
// mention. Callers pre-fill out with defaults.
func DecodeComponentSpecInto[T any](raw any, out *T) error {
	if raw == nil || out == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	// Yaw is in degrees about +Y; 0 faces +Z.
	Yaw float64 `yaml:"yaw"`
}

type AgentBodyComponentSpec struct {
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

type TeamComponentSpec struct {
	ID int `yaml:"id"`
}

type AnimationDefComponentSpec struct {
	Duration float64 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
}

type AnimationComponentSpec struct {
	Clips map[string]AnimationDefComponentSpec `yaml:"clips"`
}

type LocomotionComponentSpec struct {
	External      bool          `yaml:"external"`
	QueueCapacity int           `yaml:"queue_capacity"`
	Config        motion.Config `yaml:",inline"`
	// Clips overrides the clip of a state by state name. An empty clip
	// turns that state's animation requests into no-ops.
	Clips map[string]string `yaml:"clips"`
}

func DecodeLocomotionSpec(raw any) (LocomotionComponentSpec, error) {
	spec := LocomotionComponentSpec{Config: motion.DefaultConfig()}
	if err := DecodeComponentSpecInto(raw, &spec); err != nil {
		return spec, err
	}
	return spec, nil
}

// MotionConfig validates the locomotion block and resolves its clip table.
func (s LocomotionComponentSpec) MotionConfig() (motion.Config, error) {
	cfg := s.Config
	switch {
	case cfg.WalkSpeed < 0:
		return cfg, fmt.Errorf("%w: walk_speed: %v", ErrInvalidSpec, cfg.WalkSpeed)
	case cfg.JumpImpulse <= 0:
		return cfg, fmt.Errorf("%w: jump_impulse must be positive: %v", ErrInvalidSpec, cfg.JumpImpulse)
	case cfg.Gravity >= 0:
		return cfg, fmt.Errorf("%w: gravity must be negative: %v", ErrInvalidSpec, cfg.Gravity)
	case cfg.SprintMultiplier < 0:
		return cfg, fmt.Errorf("%w: sprint_multiplier: %v", ErrInvalidSpec, cfg.SprintMultiplier)
	case cfg.MinSwitchInterval < 0 || cfg.TransitionGrace < 0:
		return cfg, fmt.Errorf("%w: request intervals must not be negative", ErrInvalidSpec)
	case cfg.CrossFade < 0 || cfg.LoopFade < 0:
		return cfg, fmt.Errorf("%w: fades must not be negative", ErrInvalidSpec)
	}

	clips := motion.DefaultClips()
	for name, clip := range s.Clips {
		st, ok := motion.ParseState(name)
		if !ok {
			return cfg, fmt.Errorf("%w: clips: unknown state %q", ErrInvalidSpec, name)
		}
		clips[st] = clip
	}
	cfg.Clips = clips
	return cfg, nil
}

type SteeringComponentSpec struct {
	Config steering.Config `yaml:",inline"`
	// Seed offsets the arena seed so agents do not jitter in lockstep.
	Seed int64 `yaml:"seed"`
}

func DecodeSteeringSpec(raw any) (SteeringComponentSpec, error) {
	spec := SteeringComponentSpec{Config: steering.DefaultConfig()}
	if err := DecodeComponentSpecInto(raw, &spec); err != nil {
		return spec, err
	}
	return spec, nil
}

// SteeringConfig validates the steering block. An empty ball tag is allowed and
// disables ball avoidance.
func (s SteeringComponentSpec) SteeringConfig() (steering.Config, error) {
	cfg := s.Config
	if cfg.SafeDistance < 0 || cfg.PanicDistance < 0 {
		return cfg, fmt.Errorf("%w: distances must not be negative", ErrInvalidSpec)
	}
	if cfg.Smoothing < 0 || cfg.Smoothing > 1 {
		return cfg, fmt.Errorf("%w: smoothing: %v", ErrInvalidSpec, cfg.Smoothing)
	}
	if cfg.SprintChance < 0 || cfg.SprintChance > 1 {
		return cfg, fmt.Errorf("%w: sprint_chance: %v", ErrInvalidSpec, cfg.SprintChance)
	}
	return cfg, nil
}

type ThrowerComponentSpec struct {
	Clip     string  `yaml:"clip"`
	Delay    float64 `yaml:"delay"`
	Recover  float64 `yaml:"recover"`
	Force    float64 `yaml:"force"`
	Lift     float64 `yaml:"lift"`
	Cooldown float64 `yaml:"cooldown"`
}

func DefaultThrowerSpec() ThrowerComponentSpec {
	return ThrowerComponentSpec{Clip: "Throw", Delay: 1.05, Recover: 0.3, Force: 10, Lift: 2, Cooldown: 0.2}
}

type ScriptComponentSpec struct {
	Path   string         `yaml:"path"`
	Params map[string]any `yaml:"params"`
}
