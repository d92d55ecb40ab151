package motion

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Animator is the animation playback surface owned by one machine.
type Animator interface {
	// RequestState plays clip from the start when immediate is set, else
	// crossfades to it over fade seconds.
	RequestState(clip string, immediate bool, fade float64)
	CurrentClip() string
	// Progress is the normalized time of the current clip; >= 1 once a
	// full cycle has played.
	Progress() float64
	InTransition() bool
	SetSpeed(v float64)
}

// Body is the physical collider owned by one machine.
type Body interface {
	Move(displacement mgl64.Vec3)
	Grounded() bool
	// Heading is the current facing; forward is +Z, right is +X.
	Heading() mgl64.Quat
}

// Machine resolves intent into body motion and one discrete animation state.
// LogicTick runs once per frame and PhysicsTick once per fixed step. Neither
// blocks; commands reach the machine only through its queue.
type Machine struct {
	name  string
	cfg   Config
	anim  Animator
	body  Body
	queue *CommandQueue

	intent        Intent
	jumpRequested bool
	restricted    bool

	verticalVelocity float64
	horizontal       mgl64.Vec3
	wasGrounded      bool
	jump             JumpPhase

	current State
	desired State
	pending State
	oneOff  string
	skip    bool

	lastRequest     string
	lastRequestTime float64
	lastDriven      float64
	now             float64
	warned          bool
}

// NewMachine creates a machine. A nil animator or body leaves the machine
// doing intent bookkeeping only.
func NewMachine(name string, cfg Config, anim Animator, body Body) *Machine {
	return NewMachineWithQueue(name, cfg, anim, body, nil)
}

// NewMachineWithQueue is NewMachine draining q. A nil q gets an unbounded
// queue.
func NewMachineWithQueue(name string, cfg Config, anim Animator, body Body, q *CommandQueue) *Machine {
	if q == nil {
		q = NewCommandQueue(0)
	}
	m := &Machine{
		name:            name,
		cfg:             cfg,
		anim:            anim,
		body:            body,
		queue:           q,
		current:         Idle,
		desired:         Idle,
		pending:         StateNone,
		lastRequestTime: -10,
	}
	if body != nil {
		m.wasGrounded = body.Grounded()
	}
	if m.ready() {
		m.requestState(Idle, true)
	}
	return m
}

func (m *Machine) Name() string { return m.name }

func (m *Machine) Config() Config { return m.cfg }

// SetConfig swaps tuning in place. Runtime state is kept.
func (m *Machine) SetConfig(cfg Config) {
	if m == nil {
		return
	}
	m.cfg = cfg
}

// Queue returns the command queue drained by LogicTick.
func (m *Machine) Queue() *CommandQueue {
	if m == nil {
		return nil
	}
	return m.queue
}

func (m *Machine) Move(dir MoveDir, vector mgl64.Vec2, sprint bool) bool {
	return m.Queue().Move(dir, vector, sprint)
}

func (m *Machine) SetMovement(vector mgl64.Vec2, sprint bool) bool {
	return m.Queue().SetMovement(vector, sprint)
}

func (m *Machine) Jump() bool { return m.Queue().Jump() }

func (m *Machine) Stop() bool { return m.Queue().Stop() }

func (m *Machine) PlayAnimation(clip string) bool { return m.Queue().PlayAnimation(clip) }

// Restrict blocks jump requests until Unrestrict.
func (m *Machine) Restrict() {
	if m == nil {
		return
	}
	m.restricted = true
}

func (m *Machine) Unrestrict() {
	if m == nil {
		return
	}
	m.restricted = false
}

func (m *Machine) Restricted() bool { return m.restricted }

func (m *Machine) Intent() Intent { return m.intent }

func (m *Machine) JumpRequested() bool { return m.jumpRequested }

// Current is the state the machine believes is showing.
func (m *Machine) Current() State { return m.current }

func (m *Machine) Desired() State { return m.desired }

// Pending is the state queued to follow the jump clip.
func (m *Machine) Pending() (State, bool) {
	return m.pending, m.pending != StateNone
}

// LastRequest is the clip of the last accepted animation request.
func (m *Machine) LastRequest() string { return m.lastRequest }

// OneOff is the explicit clip started by PlayAnimation, if still showing.
func (m *Machine) OneOff() string { return m.oneOff }

func (m *Machine) JumpPhase() JumpPhase { return m.jump }

func (m *Machine) VerticalVelocity() float64 { return m.verticalVelocity }

// HorizontalVelocity is the world velocity used on the last physics tick.
func (m *Machine) HorizontalVelocity() mgl64.Vec3 { return m.horizontal }

func (m *Machine) MotionPhase() MotionPhase {
	grounded := m.wasGrounded
	if m.body != nil {
		grounded = m.body.Grounded()
	}
	return PhaseOf(grounded, m.verticalVelocity, m.intent, m.cfg.Derive)
}

// Stale reports whether logic ticks have stopped for long enough that the
// host should tick the machine itself.
func (m *Machine) Stale(now float64) bool {
	if m == nil || m.cfg.ExternalTimeout <= 0 {
		return false
	}
	return now-m.lastDriven > m.cfg.ExternalTimeout
}

// Reset returns the machine to a grounded idle agent with no intent.
func (m *Machine) Reset() {
	if m == nil {
		return
	}
	m.queue.Clear()
	m.intent = Intent{}
	m.jumpRequested = false
	m.restricted = false
	m.verticalVelocity = 0
	m.horizontal = mgl64.Vec3{}
	m.jump = JumpNone
	m.pending = StateNone
	m.oneOff = ""
	m.desired = Idle
	m.current = Idle
	if m.body != nil {
		m.wasGrounded = m.body.Grounded()
	}
	if m.anim != nil && m.body != nil {
		m.requestState(Idle, true)
	}
}

// LogicTick drains commands, applies the derived state and keeps clips
// playing. now is the host clock in seconds.
func (m *Machine) LogicTick(now float64) {
	if m == nil {
		return
	}
	m.now = now
	m.lastDriven = now
	m.skip = false

	for _, cmd := range m.queue.Drain() {
		m.apply(cmd)
	}

	ready := m.ready()
	if m.jump == JumpNone && !m.skip {
		m.desired = Derive(m.intent, m.cfg.Derive)
		if ready {
			m.applyDesired()
		}
	}
	if ready {
		m.maintain()
	}
}

// PhysicsTick integrates one fixed step of dt seconds and moves the body.
func (m *Machine) PhysicsTick(now, dt float64) {
	if m == nil || dt <= 0 {
		return
	}
	m.now = now
	if !m.ready() {
		return
	}

	m.horizontal = m.horizontalVelocity()
	started := false
	if m.body.Grounded() {
		if m.verticalVelocity < 0 {
			m.verticalVelocity = m.cfg.GroundStick
		}
		if m.jumpRequested {
			if !m.restricted {
				m.startJump()
				started = true
			}
			m.jumpRequested = false
		}
	} else {
		m.verticalVelocity += m.cfg.Gravity * dt
		if m.jump == JumpNone || m.jump == JumpLandedPending {
			m.jump = JumpAirborne
			m.pending = StateNone
		}
	}

	m.body.Move(m.horizontal.Add(mgl64.Vec3{0, m.verticalVelocity, 0}).Mul(dt))

	grounded := m.body.Grounded()
	switch {
	case grounded && !m.wasGrounded:
		m.land()
	case grounded && !started && (m.jump == JumpAirborne || m.jump == JumpAirborneHeld):
		// the jump never left the ground
		if m.verticalVelocity > 0 {
			m.verticalVelocity = 0
		}
		m.land()
	}
	m.wasGrounded = grounded
}

func (m *Machine) apply(cmd Command) {
	switch cmd.Op {
	case OpMove:
		in := cmd.Dir.Intent()
		if v := finite(cmd.Vector); v.LenSqr() > 0.0001 {
			in = Intent{Direction: v.Normalize(), WantSprint: cmd.Sprint}
		}
		m.intent = in
	case OpSetMovement:
		m.intent = Intent{Direction: clampIntent(finite(cmd.Vector)), WantSprint: cmd.Sprint}
	case OpJump:
		if !m.restricted {
			m.jumpRequested = true
		}
	case OpStop:
		m.intent = Intent{}
	case OpPlayAnimation:
		if cmd.Clip == "" {
			return
		}
		m.skip = true
		if !m.ready() || !m.request(cmd.Clip, false, m.cfg.CrossFade) {
			return
		}
		if s, ok := m.cfg.Clips.Lookup(cmd.Clip); ok {
			m.current = s
			m.oneOff = ""
			return
		}
		m.oneOff = cmd.Clip
	}
}

func (m *Machine) applyDesired() {
	if m.desired == Idle && m.current != Idle {
		m.requestState(Idle, true)
		return
	}
	if m.desired != m.current {
		m.requestState(m.desired, false)
	}
}

func (m *Machine) maintain() {
	if m.oneOff != "" {
		if m.anim.CurrentClip() == m.oneOff && !m.anim.InTransition() && m.anim.Progress() >= 1 {
			if m.request(m.cfg.Clips.Clip(m.current), false, m.cfg.CrossFade) {
				m.oneOff = ""
			}
		}
		return
	}

	clip := m.cfg.Clips.Clip(m.current)
	if clip == "" || m.anim.CurrentClip() != clip || m.anim.InTransition() {
		return
	}
	progress := m.anim.Progress()

	if m.current.SinglePlay() {
		if progress < 1 {
			m.anim.SetSpeed(1)
			return
		}
		if m.pending != StateNone {
			next := m.pending
			m.pending = StateNone
			m.jump = JumpNone
			m.requestState(next, true)
			return
		}
		m.anim.SetSpeed(0)
		if m.jump == JumpAirborne {
			m.jump = JumpAirborneHeld
		}
		return
	}

	m.anim.SetSpeed(1)
	if progress >= 1 {
		m.anim.RequestState(clip, false, m.cfg.LoopFade)
	}
}

func (m *Machine) startJump() {
	m.verticalVelocity = m.cfg.JumpImpulse
	m.jump = JumpAirborne
	m.pending = StateNone
	m.requestState(Jump, true)
}

// land resolves the not-grounded to grounded edge. Idle waits for a live
// jump clip to finish; a moving state cuts it short.
func (m *Machine) land() {
	m.desired = Derive(m.intent, m.cfg.Derive)
	target := m.desired

	if m.current == Jump && m.jumpClipPlaying() {
		if target == Idle {
			m.pending = Idle
			m.jump = JumpLandedPending
			return
		}
		m.jump = JumpNone
		m.pending = StateNone
		m.requestState(target, true)
		return
	}

	m.jump = JumpNone
	m.pending = StateNone
	m.requestState(target, target == Idle)
}

func (m *Machine) jumpClipPlaying() bool {
	clip := m.cfg.Clips.Clip(Jump)
	return clip != "" && m.anim.CurrentClip() == clip && m.anim.Progress() < 1
}

func (m *Machine) requestState(s State, force bool) bool {
	if !m.request(m.cfg.Clips.Clip(s), force, m.cfg.CrossFade) {
		return false
	}
	m.current = s
	m.oneOff = ""
	return true
}

// request applies the debounce policy. Forced requests skip every guard and
// play the clip from its start.
func (m *Machine) request(clip string, force bool, fade float64) bool {
	if m.anim == nil || clip == "" {
		return false
	}
	if !force && m.current == Jump && m.jump != JumpNone {
		return false
	}

	m.anim.SetSpeed(1)
	if force {
		m.anim.RequestState(clip, true, 0)
	} else {
		inTransition := m.anim.InTransition()
		if m.anim.CurrentClip() == clip && !inTransition {
			m.lastRequest = clip
			m.lastRequestTime = m.now
			return true
		}
		elapsed := m.now - m.lastRequestTime
		if elapsed < m.cfg.MinSwitchInterval {
			return false
		}
		if inTransition && elapsed < m.cfg.TransitionGrace {
			return false
		}
		m.anim.RequestState(clip, false, fade)
	}
	m.lastRequest = clip
	m.lastRequestTime = m.now
	return true
}

func (m *Machine) horizontalVelocity() mgl64.Vec3 {
	d := m.intent.Direction
	if math.Abs(d.X())+math.Abs(d.Y()) <= 0.0001 {
		return mgl64.Vec3{}
	}
	speed := m.cfg.WalkSpeed
	if m.intent.WantSprint {
		speed *= m.cfg.SprintMultiplier
	}

	q := m.body.Heading()
	if q.Len() < 1e-9 {
		q = mgl64.QuatIdent()
	}
	right := q.Rotate(mgl64.Vec3{1, 0, 0})
	forward := q.Rotate(mgl64.Vec3{0, 0, 1})
	v := right.Mul(d.X()).Add(forward.Mul(d.Y())).Mul(speed)
	v[1] = 0
	return v
}

func (m *Machine) ready() bool {
	if m.anim != nil && m.body != nil {
		return true
	}
	if !m.warned {
		m.warned = true
		log.Printf("motion: %s: animator or body missing, running intent only", m.name)
	}
	return false
}

func finite(v mgl64.Vec2) mgl64.Vec2 {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return mgl64.Vec2{}
		}
	}
	return v
}
