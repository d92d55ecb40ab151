package motion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDerive(t *testing.T) {
	cfg := DefaultDeriveConfig()
	cases := []struct {
		name   string
		intent Intent
		want   State
	}{
		{"zero", Intent{}, Idle},
		{"below_threshold", Intent{Direction: mgl64.Vec2{0.02, 0.02}}, Idle},
		{"sprint_without_vector", Intent{WantSprint: true}, Idle},
		{"jog_forward", Intent{Direction: mgl64.Vec2{0, 1}}, JogForward},
		{"sprint_forward", Intent{Direction: mgl64.Vec2{0, 1}, WantSprint: true}, Sprint},
		{"sprint_small_lateral", Intent{Direction: mgl64.Vec2{0.3, 1}, WantSprint: true}, Sprint},
		{"sprint_turn_right", Intent{Direction: mgl64.Vec2{0.5, 0.8}, WantSprint: true}, SprintTurnRight},
		{"sprint_turn_left", Intent{Direction: mgl64.Vec2{-0.5, 0.8}, WantSprint: true}, SprintTurnLeft},
		{"sprint_backward_jogs", Intent{Direction: mgl64.Vec2{0, -1}, WantSprint: true}, JogBackward},
		{"sprint_pure_lateral_strafes", Intent{Direction: mgl64.Vec2{1, 0}, WantSprint: true}, StrafeRight},
		{"jog_forward_right", Intent{Direction: mgl64.Vec2{0.6, 0.8}}, JogForwardRight},
		{"jog_forward_left", Intent{Direction: mgl64.Vec2{-0.6, 0.8}}, JogForwardLeft},
		{"jog_backward", Intent{Direction: mgl64.Vec2{0.2, -1}}, JogBackward},
		{"jog_backward_right", Intent{Direction: mgl64.Vec2{0.6, -0.8}}, JogBackwardRight},
		{"jog_backward_left", Intent{Direction: mgl64.Vec2{-0.6, -0.8}}, JogBackwardLeft},
		{"strafe_right", Intent{Direction: mgl64.Vec2{1, 0.05}}, StrafeRight},
		{"strafe_left", Intent{Direction: mgl64.Vec2{-1, -0.05}}, StrafeLeft},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Derive(c.intent, cfg); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestDeriveIsTotalAndStable(t *testing.T) {
	cfg := DefaultDeriveConfig()
	for _, sprint := range []bool{false, true} {
		for x := -1.0; x <= 1.0; x += 0.05 {
			for y := -1.0; y <= 1.0; y += 0.05 {
				in := Intent{Direction: mgl64.Vec2{x, y}, WantSprint: sprint}
				first := Derive(in, cfg)
				if !first.Valid() || first == Jump {
					t.Fatalf("intent %v produced %s", in, first)
				}
				if again := Derive(in, cfg); again != first {
					t.Fatalf("intent %v not stable: %s then %s", in, first, again)
				}
			}
		}
	}
}

func TestJogToSprintScenario(t *testing.T) {
	cfg := DefaultDeriveConfig()
	in := Intent{Direction: mgl64.Vec2{0, 1}}
	if got := Derive(in, cfg); got != JogForward {
		t.Fatalf("expected JogForward, got %s", got)
	}
	in.WantSprint = true
	if got := Derive(in, cfg); got != Sprint {
		t.Fatalf("expected Sprint, got %s", got)
	}
}

func TestMoveDirIntent(t *testing.T) {
	cases := []struct {
		dir    MoveDir
		want   State
		sprint bool
	}{
		{MoveIdle, Idle, false},
		{MoveForward, JogForward, false},
		{MoveBackward, JogBackward, false},
		{MoveLeft, StrafeLeft, false},
		{MoveRight, StrafeRight, false},
		{MoveForwardLeft, JogForwardLeft, false},
		{MoveForwardRight, JogForwardRight, false},
		{MoveBackLeft, JogBackwardLeft, false},
		{MoveBackRight, JogBackwardRight, false},
		{MoveSprint, Sprint, true},
	}
	for _, c := range cases {
		t.Run(c.dir.String(), func(t *testing.T) {
			in := c.dir.Intent()
			if in.WantSprint != c.sprint {
				t.Fatalf("expected sprint=%v, got %v", c.sprint, in.WantSprint)
			}
			if got := Derive(in, DefaultDeriveConfig()); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
			if parsed, ok := ParseMoveDir(c.dir.String()); !ok || parsed != c.dir {
				t.Fatalf("ParseMoveDir(%q) = %v, %v", c.dir.String(), parsed, ok)
			}
		})
	}
}

func TestClipTable(t *testing.T) {
	clips := DefaultClips()
	for i := 0; i < StateCount; i++ {
		s := State(i)
		clip := clips.Clip(s)
		if clip == "" {
			t.Fatalf("state %s has no default clip", s)
		}
		if got, ok := clips.Lookup(clip); !ok || got != s {
			t.Fatalf("Lookup(%q) = %s, %v", clip, got, ok)
		}
	}
	if clips.Clip(StateNone) != "" {
		t.Fatalf("expected no clip for StateNone")
	}
}
