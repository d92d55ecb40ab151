package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/steering"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArenaSpec lays out the court and who plays on it.
type ArenaSpec struct {
	Name    string      `yaml:"name"`
	Court   CourtSpec   `yaml:"court"`
	Physics PhysicsSpec `yaml:"physics"`

	Dodger  string `yaml:"dodger"`
	Thrower string `yaml:"thrower"`
	Drill   string `yaml:"drill"`

	Dodgers      int        `yaml:"dodgers"`
	DodgerSpawns []Vec3Spec `yaml:"dodger_spawns"`
	ThrowerSpawn Vec3Spec   `yaml:"thrower_spawn"`
	DrillSpawn   Vec3Spec   `yaml:"drill_spawn"`
	Ball         BallSpec   `yaml:"ball"`
}

type CourtSpec struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

func (c CourtSpec) Court() steering.Court {
	return steering.Court{Min: mgl64.Vec2{c.MinX, c.MinZ}, Max: mgl64.Vec2{c.MaxX, c.MaxZ}}
}

type PhysicsSpec struct {
	Step           float64 `yaml:"step"`
	MaxSteps       int     `yaml:"max_steps"`
	Iterations     int     `yaml:"iterations"`
	WallThickness  float64 `yaml:"wall_thickness"`
	WallElasticity float64 `yaml:"wall_elasticity"`
	AgentHeight    float64 `yaml:"agent_height"`
	BallGravity    float64 `yaml:"ball_gravity"`
}

type BallSpec struct {
	Tag    string  `yaml:"tag"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	TTL    float64 `yaml:"ttl"`
}

// Vec3Spec is an arena position; y defaults to the court surface.
type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func LoadArenaSpec(name string) (*ArenaSpec, error) {
	if name == "" {
		name = "arena.yaml"
	}
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// Validate fills defaults and rejects layouts nothing can play on.
func (s *ArenaSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil arena", ErrInvalidSpec)
	}
	c := s.Court
	if c.MaxX <= c.MinX || c.MaxZ <= c.MinZ {
		return fmt.Errorf("%w: court: max must exceed min", ErrInvalidSpec)
	}
	if s.Dodgers < 0 {
		return fmt.Errorf("%w: dodgers: %d", ErrInvalidSpec, s.Dodgers)
	}
	if s.Physics.Step < 0 {
		return fmt.Errorf("%w: physics.step: %v", ErrInvalidSpec, s.Physics.Step)
	}
	if s.Physics.Step == 0 {
		s.Physics.Step = 0.02
	}
	if s.Physics.MaxSteps <= 0 {
		s.Physics.MaxSteps = 5
	}
	if s.Dodger == "" {
		s.Dodger = "dodger.yaml"
	}
	if s.Thrower == "" {
		s.Thrower = "thrower.yaml"
	}
	if s.Ball.Tag == "" {
		s.Ball.Tag = "Ball"
	}
	if s.Ball.TTL <= 0 {
		s.Ball.TTL = 6
	}
	court := c.Court()
	for i, p := range s.DodgerSpawns {
		if !court.Contains(mgl64.Vec2{p.X, p.Z}) {
			return fmt.Errorf("%w: dodger_spawns[%d] outside the court", ErrInvalidSpec, i)
		}
	}
	return nil
}
