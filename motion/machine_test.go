package motion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type animRequest struct {
	clip      string
	immediate bool
	fade      float64
}

type fakeAnimator struct {
	clip       string
	progress   float64
	transition bool
	speed      float64
	requests   []animRequest
}

func (a *fakeAnimator) RequestState(clip string, immediate bool, fade float64) {
	a.requests = append(a.requests, animRequest{clip: clip, immediate: immediate, fade: fade})
	a.clip = clip
	a.progress = 0
}

func (a *fakeAnimator) CurrentClip() string { return a.clip }
func (a *fakeAnimator) Progress() float64   { return a.progress }
func (a *fakeAnimator) InTransition() bool  { return a.transition }
func (a *fakeAnimator) SetSpeed(v float64)  { a.speed = v }

func (a *fakeAnimator) last() animRequest {
	if len(a.requests) == 0 {
		return animRequest{}
	}
	return a.requests[len(a.requests)-1]
}

type fakeBody struct {
	grounded bool
	heading  mgl64.Quat
	moves    []mgl64.Vec3
}

func (b *fakeBody) Move(d mgl64.Vec3)   { b.moves = append(b.moves, d) }
func (b *fakeBody) Grounded() bool      { return b.grounded }
func (b *fakeBody) Heading() mgl64.Quat { return b.heading }

func nan() float64 { return math.NaN() }

func absEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestMachine(t *testing.T) (*Machine, *fakeAnimator, *fakeBody) {
	t.Helper()
	anim := &fakeAnimator{speed: 1}
	body := &fakeBody{grounded: true, heading: mgl64.QuatIdent()}
	m := NewMachine("test", DefaultConfig(), anim, body)
	if anim.clip != "Idle" || !anim.last().immediate {
		t.Fatalf("expected machine to snap to Idle on creation, got %+v", anim.last())
	}
	return m, anim, body
}

// jumpAndLeaveGround starts a jump at now and takes one airborne step.
func jumpAndLeaveGround(t *testing.T, m *Machine, body *fakeBody, now float64) {
	t.Helper()
	m.Jump()
	m.LogicTick(now)
	m.PhysicsTick(now, 0.02)
	if m.Current() != Jump {
		t.Fatalf("expected Jump after jump start, got %s", m.Current())
	}
	body.grounded = false
	m.PhysicsTick(now+0.02, 0.02)
}

func TestIdleIsAlwaysForced(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.SetMovement(mgl64.Vec2{0, 1}, false)
	m.LogicTick(1)
	if m.Current() != JogForward {
		t.Fatalf("expected JogForward, got %s", m.Current())
	}

	// well inside the dwell window
	m.Stop()
	m.LogicTick(1.01)
	if m.Current() != Idle {
		t.Fatalf("expected Idle, got %s", m.Current())
	}
	if r := anim.last(); r.clip != "Idle" || !r.immediate || r.fade != 0 {
		t.Fatalf("expected forced idle request, got %+v", r)
	}
}

func TestRequestPolicy(t *testing.T) {
	t.Run("dwell_blocks_normal_request", func(t *testing.T) {
		m, anim, _ := newTestMachine(t)
		m.SetMovement(mgl64.Vec2{0, 1}, false)
		m.LogicTick(1)
		n := len(anim.requests)

		m.SetMovement(mgl64.Vec2{1, 0}, false)
		m.LogicTick(1.02)
		if m.Current() != JogForward || len(anim.requests) != n {
			t.Fatalf("expected request inside dwell to be ignored, current=%s", m.Current())
		}

		m.LogicTick(1.2)
		if m.Current() != StrafeRight {
			t.Fatalf("expected StrafeRight after dwell, got %s", m.Current())
		}
		if r := anim.last(); r.immediate || r.fade != DefaultConfig().CrossFade {
			t.Fatalf("expected crossfade request, got %+v", r)
		}
	})

	t.Run("grace_blocks_during_transition", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinSwitchInterval = 0
		anim := &fakeAnimator{}
		m := NewMachine("grace", cfg, anim, &fakeBody{grounded: true, heading: mgl64.QuatIdent()})
		m.SetMovement(mgl64.Vec2{0, 1}, false)
		m.LogicTick(1)

		anim.transition = true
		m.SetMovement(mgl64.Vec2{0, -1}, false)
		m.LogicTick(1.03)
		if m.Current() != JogForward {
			t.Fatalf("expected grace to hold JogForward, got %s", m.Current())
		}
		m.LogicTick(1.1)
		if m.Current() != JogBackward {
			t.Fatalf("expected JogBackward after grace, got %s", m.Current())
		}
	})

	t.Run("already_showing_refreshes_only", func(t *testing.T) {
		m, anim, _ := newTestMachine(t)
		m.SetMovement(mgl64.Vec2{0, 1}, false)
		m.LogicTick(1)
		n := len(anim.requests)

		anim.clip = DefaultClips().Clip(StrafeRight)
		m.SetMovement(mgl64.Vec2{1, 0}, false)
		m.LogicTick(1.01)
		if m.Current() != StrafeRight {
			t.Fatalf("expected belief to follow the surface, got %s", m.Current())
		}
		if len(anim.requests) != n {
			t.Fatalf("expected no new request, got %+v", anim.last())
		}
	})

	t.Run("rejected_request_keeps_belief", func(t *testing.T) {
		m, anim, _ := newTestMachine(t)
		m.SetMovement(mgl64.Vec2{0, 1}, false)
		m.LogicTick(0.01)
		if m.Current() != Idle || anim.clip != "Idle" {
			t.Fatalf("expected dwell after creation to keep Idle, got %s", m.Current())
		}
	})
}

func TestLoopRetrigger(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.SetMovement(mgl64.Vec2{0, 1}, false)
	m.LogicTick(1)

	anim.progress = 1
	anim.speed = 0
	m.LogicTick(1.5)
	r := anim.last()
	if r.clip != "Jog Forward" || r.immediate || r.fade != DefaultConfig().LoopFade {
		t.Fatalf("expected loop re-trigger, got %+v", r)
	}
	if anim.speed != 1 {
		t.Fatalf("expected playback speed restored, got %v", anim.speed)
	}
}

func TestJumpStartAndGravity(t *testing.T) {
	m, anim, body := newTestMachine(t)
	m.Jump()
	m.LogicTick(1)
	m.PhysicsTick(1, 0.02)

	if m.VerticalVelocity() != 5 {
		t.Fatalf("expected jump impulse 5, got %v", m.VerticalVelocity())
	}
	if r := anim.last(); r.clip != "Jump" || !r.immediate {
		t.Fatalf("expected forced jump clip, got %+v", r)
	}
	if m.JumpRequested() {
		t.Fatalf("expected jump flag consumed")
	}
	if m.JumpPhase() != JumpAirborne {
		t.Fatalf("expected airborne phase, got %s", m.JumpPhase())
	}

	body.grounded = false
	want := 5.0
	for i := 0; i < 10; i++ {
		m.PhysicsTick(1.02+float64(i)*0.02, 0.02)
		want += -20 * 0.02
		if math.Abs(m.VerticalVelocity()-want) > 1e-9 {
			t.Fatalf("step %d: expected vertical velocity %v, got %v", i, want, m.VerticalVelocity())
		}
	}
	if m.MotionPhase() != AirborneAscending {
		t.Fatalf("expected ascending, got %s", m.MotionPhase())
	}
	for i := 0; i < 10; i++ {
		m.PhysicsTick(1.3+float64(i)*0.02, 0.02)
	}
	if m.MotionPhase() != AirborneDescending {
		t.Fatalf("expected descending, got %s", m.MotionPhase())
	}
	last := body.moves[len(body.moves)-1]
	if math.Abs(last.Y()-m.VerticalVelocity()*0.02) > 1e-9 {
		t.Fatalf("expected displacement to carry vertical velocity, got %v", last)
	}
}

func TestRestrictedJumpDoesNotStart(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.Jump()
	m.LogicTick(1)
	m.Restrict()
	m.PhysicsTick(1, 0.02)
	if m.VerticalVelocity() != 0 || m.Current() == Jump {
		t.Fatalf("expected restricted jump to be dropped, vv=%v current=%s", m.VerticalVelocity(), m.Current())
	}
	if m.JumpRequested() {
		t.Fatalf("expected jump flag cleared while grounded")
	}
	if anim.last().clip == "Jump" {
		t.Fatalf("expected no jump clip")
	}
}

func TestGroundedStick(t *testing.T) {
	m, _, body := newTestMachine(t)
	body.grounded = false
	m.PhysicsTick(1, 0.1)
	m.PhysicsTick(1.1, 0.1)
	if m.VerticalVelocity() >= 0 {
		t.Fatalf("expected falling, got %v", m.VerticalVelocity())
	}
	body.grounded = true
	m.PhysicsTick(1.2, 0.1)
	if m.VerticalVelocity() != -2 {
		t.Fatalf("expected ground stick -2, got %v", m.VerticalVelocity())
	}
}

func TestJumpLandingRace(t *testing.T) {
	cases := []struct {
		name          string
		landing       mgl64.Vec2
		clipDone      bool
		wantCurrent   State
		wantPending   bool
		wantPhase     JumpPhase
		wantImmediate bool
		wantClip      string
	}{
		{
			name:        "playing_idle_defers",
			wantCurrent: Jump,
			wantPending: true,
			wantPhase:   JumpLandedPending,
			wantClip:    "Jump",
		},
		{
			name:          "playing_moving_preempts",
			landing:       mgl64.Vec2{0, 1},
			wantCurrent:   JogForward,
			wantPhase:     JumpNone,
			wantImmediate: true,
			wantClip:      "Jog Forward",
		},
		{
			name:          "done_idle_forced",
			clipDone:      true,
			wantCurrent:   Idle,
			wantPhase:     JumpNone,
			wantImmediate: true,
			wantClip:      "Idle",
		},
		{
			name:        "done_moving_normal",
			landing:     mgl64.Vec2{-1, 0},
			clipDone:    true,
			wantCurrent: StrafeLeft,
			wantPhase:   JumpNone,
			wantClip:    "Strafe Left",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, anim, body := newTestMachine(t)
			jumpAndLeaveGround(t, m, body, 1)

			if c.landing.LenSqr() > 0 {
				m.SetMovement(c.landing, false)
			} else {
				m.Stop()
			}
			anim.progress = 0.5
			if c.clipDone {
				anim.progress = 1
			}
			m.LogicTick(1.2)
			if c.clipDone && (m.JumpPhase() != JumpAirborneHeld || anim.speed != 0) {
				t.Fatalf("expected finished jump to freeze, phase=%s speed=%v", m.JumpPhase(), anim.speed)
			}
			if m.Current() != Jump {
				t.Fatalf("expected Jump to survive airborne logic tick, got %s", m.Current())
			}

			body.grounded = true
			m.PhysicsTick(1.5, 0.02)

			if m.Current() != c.wantCurrent {
				t.Fatalf("expected current %s, got %s", c.wantCurrent, m.Current())
			}
			if _, ok := m.Pending(); ok != c.wantPending {
				t.Fatalf("expected pending=%v, got %v", c.wantPending, ok)
			}
			if m.JumpPhase() != c.wantPhase {
				t.Fatalf("expected phase %s, got %s", c.wantPhase, m.JumpPhase())
			}
			r := anim.last()
			if r.clip != c.wantClip {
				t.Fatalf("expected last clip %q, got %q", c.wantClip, r.clip)
			}
			if c.wantClip != "Jump" && r.immediate != c.wantImmediate {
				t.Fatalf("expected immediate=%v, got %+v", c.wantImmediate, r)
			}
		})
	}
}

func TestJumpThatNeverLeavesGround(t *testing.T) {
	cases := []struct {
		name     string
		impulse  float64
		landing  mgl64.Vec2
		clipDone bool
		want     State
	}{
		{name: "idle_waits_for_clip", want: Idle},
		{name: "moving_preempts", landing: mgl64.Vec2{0, 1}, want: JogForward},
		{name: "clip_done_idle", clipDone: true, want: Idle},
		{name: "clip_done_moving", landing: mgl64.Vec2{1, 0}, clipDone: true, want: StrafeRight},
		{name: "zero_impulse", impulse: -1, landing: mgl64.Vec2{0, 1}, want: JogForward},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, anim, _ := newTestMachine(t)
			if c.impulse < 0 {
				cfg := m.Config()
				cfg.JumpImpulse = 0
				m.SetConfig(cfg)
			}
			m.Jump()
			m.LogicTick(1)
			m.PhysicsTick(1, 0.02)
			if m.Current() != Jump || m.JumpPhase() != JumpAirborne {
				t.Fatalf("expected jump start, got %s %s", m.Current(), m.JumpPhase())
			}

			if c.landing.LenSqr() > 0 {
				m.SetMovement(c.landing, false)
			} else {
				m.Stop()
			}
			if c.clipDone {
				anim.progress = 1
			}
			m.LogicTick(1.02)
			m.PhysicsTick(1.02, 0.02)
			if m.JumpPhase() == JumpAirborne || m.JumpPhase() == JumpAirborneHeld {
				t.Fatalf("expected grounded jump to resolve, phase=%s", m.JumpPhase())
			}
			if m.VerticalVelocity() > 0 {
				t.Fatalf("expected no upward velocity on the ground, got %v", m.VerticalVelocity())
			}

			for i := 0; i < 20; i++ {
				now := 1.3 + float64(i)*0.02
				anim.progress = 1
				if c.landing.LenSqr() > 0 {
					m.SetMovement(c.landing, false)
				}
				m.LogicTick(now)
				m.PhysicsTick(now, 0.02)
			}
			if m.Current() != c.want || m.JumpPhase() != JumpNone {
				t.Fatalf("expected %s with jump cleared, got %s %s", c.want, m.Current(), m.JumpPhase())
			}
			if anim.speed != 1 {
				t.Fatalf("expected playback running, got speed %v", anim.speed)
			}
		})
	}
}

func TestPendingAppliedWhenJumpFinishes(t *testing.T) {
	m, anim, body := newTestMachine(t)
	jumpAndLeaveGround(t, m, body, 1)
	anim.progress = 0.4
	body.grounded = true
	m.PhysicsTick(1.3, 0.02)
	if s, ok := m.Pending(); !ok || s != Idle {
		t.Fatalf("expected Idle pending, got %s %v", s, ok)
	}

	// still playing: nothing changes
	anim.progress = 0.9
	m.LogicTick(1.35)
	if m.Current() != Jump {
		t.Fatalf("expected jump to keep playing, got %s", m.Current())
	}

	anim.progress = 1
	m.LogicTick(1.4)
	if m.Current() != Idle {
		t.Fatalf("expected Idle after jump finished, got %s", m.Current())
	}
	if _, ok := m.Pending(); ok {
		t.Fatalf("expected pending cleared")
	}
	if r := anim.last(); r.clip != "Idle" || !r.immediate {
		t.Fatalf("expected forced idle, got %+v", r)
	}
	if m.JumpPhase() != JumpNone {
		t.Fatalf("expected jump cleared, got %s", m.JumpPhase())
	}
}

func TestJumpNotInterruptedByNormalRequests(t *testing.T) {
	m, anim, body := newTestMachine(t)
	jumpAndLeaveGround(t, m, body, 1)
	anim.progress = 0.3
	n := len(anim.requests)

	m.SetMovement(mgl64.Vec2{1, 1}, true)
	m.PlayAnimation("Taking Item")
	m.LogicTick(1.5)
	m.LogicTick(2)
	if len(anim.requests) != n || m.Current() != Jump {
		t.Fatalf("expected jump uninterrupted, current=%s last=%+v", m.Current(), anim.last())
	}
}

func TestLeavingGroundWithoutJump(t *testing.T) {
	m, anim, body := newTestMachine(t)
	m.SetMovement(mgl64.Vec2{0, 1}, false)
	m.LogicTick(1)
	body.grounded = false
	m.PhysicsTick(1.1, 0.02)
	if m.JumpPhase() != JumpAirborne {
		t.Fatalf("expected airborne phase, got %s", m.JumpPhase())
	}

	m.Stop()
	m.LogicTick(1.2)
	if m.Current() != JogForward {
		t.Fatalf("expected derivation suspended while airborne, got %s", m.Current())
	}

	body.grounded = true
	m.PhysicsTick(1.3, 0.02)
	if m.Current() != Idle || !anim.last().immediate {
		t.Fatalf("expected forced idle on landing, got %s %+v", m.Current(), anim.last())
	}
}

func TestHorizontalVelocityFollowsHeading(t *testing.T) {
	cases := []struct {
		name    string
		yaw     float64
		intent  mgl64.Vec2
		sprint  bool
		wantDir mgl64.Vec3
		speed   float64
	}{
		{"forward_identity", 0, mgl64.Vec2{0, 1}, false, mgl64.Vec3{0, 0, 1}, 3.5},
		{"right_identity", 0, mgl64.Vec2{1, 0}, false, mgl64.Vec3{1, 0, 0}, 3.5},
		{"forward_turned", math.Pi / 2, mgl64.Vec2{0, 1}, true, mgl64.Vec3{1, 0, 0}, 3.5 * 1.8},
		{"right_turned", math.Pi / 2, mgl64.Vec2{1, 0}, false, mgl64.Vec3{0, 0, -1}, 3.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _, body := newTestMachine(t)
			body.heading = mgl64.QuatRotate(c.yaw, mgl64.Vec3{0, 1, 0})
			m.SetMovement(c.intent, c.sprint)
			m.LogicTick(1)
			m.PhysicsTick(1, 0.02)
			want := c.wantDir.Mul(c.speed)
			if got := m.HorizontalVelocity(); !got.ApproxFuncEqual(want, absEqual) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestPlayAnimationOneOff(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.PlayAnimation("Goalie Throw")
	m.SetMovement(mgl64.Vec2{0, 1}, false)
	m.LogicTick(1)
	if anim.clip != "Goalie Throw" || m.OneOff() != "Goalie Throw" {
		t.Fatalf("expected one-off clip to play, got %q", anim.clip)
	}
	if m.Current() != Idle {
		t.Fatalf("expected locomotion belief unchanged, got %s", m.Current())
	}

	// derivation resumes next tick
	m.LogicTick(1.2)
	if m.Current() != JogForward {
		t.Fatalf("expected JogForward after one-off tick, got %s", m.Current())
	}
	if m.OneOff() != "" {
		t.Fatalf("expected one-off cleared by locomotion request")
	}
}

func TestPlayAnimationReturnsAfterFinish(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.PlayAnimation("Taking Item")
	m.LogicTick(1)

	anim.progress = 0.5
	m.LogicTick(1.2)
	if anim.clip != "Taking Item" {
		t.Fatalf("expected one-off to keep playing, got %q", anim.clip)
	}
	anim.progress = 1
	m.LogicTick(1.5)
	if anim.clip != "Idle" || m.OneOff() != "" {
		t.Fatalf("expected return to Idle, got %q oneOff=%q", anim.clip, m.OneOff())
	}
}

func TestMissingCollaborators(t *testing.T) {
	cases := []struct {
		name string
		anim Animator
		body Body
	}{
		{"no_animator", nil, &fakeBody{grounded: true, heading: mgl64.QuatIdent()}},
		{"no_body", &fakeAnimator{}, nil},
		{"neither", nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewMachine(c.name, DefaultConfig(), c.anim, c.body)
			m.SetMovement(mgl64.Vec2{0, 1}, true)
			m.Jump()
			m.LogicTick(1)
			m.PhysicsTick(1, 0.02)
			m.LogicTick(2)
			if m.Intent().Direction != (mgl64.Vec2{0, 1}) {
				t.Fatalf("expected intent bookkeeping, got %+v", m.Intent())
			}
			if m.Desired() != Sprint {
				t.Fatalf("expected desired Sprint, got %s", m.Desired())
			}
			if m.VerticalVelocity() != 0 || m.Current() != Idle {
				t.Fatalf("expected no physical or visual effect")
			}
			if a, ok := c.anim.(*fakeAnimator); ok && len(a.requests) != 0 {
				t.Fatalf("expected no animation requests, got %d", len(a.requests))
			}
			if b, ok := c.body.(*fakeBody); ok && len(b.moves) != 0 {
				t.Fatalf("expected no body moves, got %d", len(b.moves))
			}
		})
	}
}

func TestStaleAndReset(t *testing.T) {
	m, anim, _ := newTestMachine(t)
	m.LogicTick(1)
	if m.Stale(1.2) {
		t.Fatalf("expected fresh machine")
	}
	if !m.Stale(1.3) {
		t.Fatalf("expected stale after timeout")
	}

	m.SetMovement(mgl64.Vec2{0, 1}, true)
	m.LogicTick(2)
	m.SetMovement(mgl64.Vec2{1, 0}, false)
	m.Reset()
	if m.Queue().Len() != 0 || m.Intent() != (Intent{}) || m.Current() != Idle {
		t.Fatalf("expected reset to clear intent and queue")
	}
	if r := anim.last(); r.clip != "Idle" || !r.immediate {
		t.Fatalf("expected reset to snap to idle, got %+v", r)
	}
}
