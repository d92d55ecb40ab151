package prefabs

import (
	"errors"
	"testing"

	"github.com/milk9111/ballblitz/motion"
)

func TestLoadArenaSpec(t *testing.T) {
	spec, err := LoadArenaSpec("arena.yaml")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	court := spec.Court.Court()
	if court.Min.X() != -10 || court.Max.Y() != 6 {
		t.Fatalf("expected a 20x12 court, got %+v", court)
	}
	if spec.Dodgers != 4 || len(spec.DodgerSpawns) < spec.Dodgers {
		t.Fatalf("expected 4 dodgers with spawns, got %d/%d", spec.Dodgers, len(spec.DodgerSpawns))
	}
	if spec.Physics.Step != 0.02 || spec.Ball.Tag != "Ball" {
		t.Fatalf("unexpected physics/ball settings: %+v %+v", spec.Physics, spec.Ball)
	}
}

func TestArenaValidate(t *testing.T) {
	valid := func() ArenaSpec {
		return ArenaSpec{Court: CourtSpec{MinX: -5, MinZ: -5, MaxX: 5, MaxZ: 5}}
	}
	tests := []struct {
		name    string
		mutate  func(*ArenaSpec)
		wantErr bool
	}{
		{"defaults_filled", func(*ArenaSpec) {}, false},
		{"inverted_court", func(s *ArenaSpec) { s.Court.MaxX = -6 }, true},
		{"negative_dodgers", func(s *ArenaSpec) { s.Dodgers = -1 }, true},
		{"negative_step", func(s *ArenaSpec) { s.Physics.Step = -0.1 }, true},
		{"spawn_outside", func(s *ArenaSpec) { s.DodgerSpawns = []Vec3Spec{{X: 9}} }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSpec) {
					t.Fatalf("expected ErrInvalidSpec, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Physics.Step != 0.02 || s.Dodger != "dodger.yaml" || s.Ball.TTL != 6 {
				t.Fatalf("expected defaults to be filled, got %+v", s)
			}
		})
	}
}

func TestDodgerPrefabDecodes(t *testing.T) {
	spec, err := LoadEntityBuildSpec("dodger.yaml")
	if err != nil {
		t.Fatalf("load dodger: %v", err)
	}
	for _, name := range []string{"dodger_tag", "transform", "agent_body", "animation", "locomotion", "steering"} {
		if _, ok := spec.Components[name]; !ok {
			t.Fatalf("expected component %q in dodger prefab", name)
		}
	}

	loco, err := DecodeLocomotionSpec(spec.Components["locomotion"])
	if err != nil {
		t.Fatalf("decode locomotion: %v", err)
	}
	cfg, err := loco.MotionConfig()
	if err != nil {
		t.Fatalf("motion config: %v", err)
	}
	if !loco.External || cfg.WalkSpeed != 3.5 || cfg.Derive.SprintDiagonal != 0.35 {
		t.Fatalf("unexpected locomotion config: external=%v %+v", loco.External, cfg)
	}
	if cfg.Clips.Clip(motion.StrafeRight) != "Strafe" {
		t.Fatalf("expected default clip table, got %q", cfg.Clips.Clip(motion.StrafeRight))
	}

	st, err := DecodeSteeringSpec(spec.Components["steering"])
	if err != nil {
		t.Fatalf("decode steering: %v", err)
	}
	if sc, err := st.SteeringConfig(); err != nil || sc.BallTag != "Ball" || sc.SafeDistance != 7 {
		t.Fatalf("unexpected steering config %+v err=%v", sc, err)
	}

	anim, err := DecodeComponentSpec[AnimationComponentSpec](spec.Components["animation"])
	if err != nil {
		t.Fatalf("decode animation: %v", err)
	}
	if jump := anim.Clips["Jump"]; jump.Duration != 1.1 || jump.Loop {
		t.Fatalf("expected a single-play 1.1s jump clip, got %+v", jump)
	}
}

func TestLocomotionSpecDefaultsAndClips(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		check   func(t *testing.T, cfg motion.Config)
		wantErr bool
	}{
		{
			name: "missing_fields_keep_defaults",
			raw:  map[string]any{"walk_speed": 5.0},
			check: func(t *testing.T, cfg motion.Config) {
				if cfg.WalkSpeed != 5 || cfg.Gravity != -20 || cfg.Derive.MovingSq != 0.001 {
					t.Fatalf("expected override over defaults, got %+v", cfg)
				}
			},
		},
		{
			name: "clip_override_and_disable",
			raw:  map[string]any{"clips": map[string]any{"Sprint": "Run Fast", "Jump": ""}},
			check: func(t *testing.T, cfg motion.Config) {
				if cfg.Clips.Clip(motion.Sprint) != "Run Fast" || cfg.Clips.Clip(motion.Jump) != "" {
					t.Fatalf("unexpected clip table %v", cfg.Clips)
				}
				if cfg.Clips.Clip(motion.Idle) != "Idle" {
					t.Fatalf("expected untouched states to keep default clips")
				}
			},
		},
		{name: "unknown_state", raw: map[string]any{"clips": map[string]any{"Cartwheel": "x"}}, wantErr: true},
		{name: "negative_speed", raw: map[string]any{"walk_speed": -1.0}, wantErr: true},
		{name: "zero_jump_impulse", raw: map[string]any{"jump_impulse": 0.0}, wantErr: true},
		{name: "upward_gravity", raw: map[string]any{"gravity": 9.8}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := DecodeLocomotionSpec(tc.raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			cfg, err := spec.MotionConfig()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSpec) {
					t.Fatalf("expected ErrInvalidSpec, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestScriptPaths(t *testing.T) {
	tests := []struct{ in, want string }{
		{"zigzag", "scripts/zigzag.tengo"},
		{"zigzag.tengo", "scripts/zigzag.tengo"},
		{"scripts/zigzag.tengo", "scripts/zigzag.tengo"},
		{"prefabs/scripts/shuttle.tengo", "scripts/shuttle.tengo"},
	}
	for _, tc := range tests {
		if got := cleanScriptPath(tc.in); got != tc.want {
			t.Fatalf("cleanScriptPath(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}

	names := Scripts()
	if len(names) != 3 || names[0] != "autothrow" {
		t.Fatalf("expected three embedded scripts, got %v", names)
	}
	if _, err := LoadScript("zigzag"); err != nil {
		t.Fatalf("load script: %v", err)
	}
}
