package steering

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ballblitz/motion"
)

// Agent is what the host knows about an autonomous agent this tick.
type Agent struct {
	Position   mgl64.Vec3
	Facing     mgl64.Quat
	Thrower    mgl64.Vec3
	HasThrower bool
	// Teammates holds the positions of the other agents on the team.
	Teammates []mgl64.Vec3
}

// Ball is the cached nearest ball, copied out for one tick.
type Ball struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Present  bool
}

// Snapshot is the complete per-tick input of a steering step.
type Snapshot struct {
	Agent
	Ball Ball
}

// Output is the result of one steering step.
type Output struct {
	// World is the combined, capped steering vector on the ground plane.
	World mgl64.Vec3
	// Move is the smoothed local intent (lateral, forward).
	Move   mgl64.Vec2
	Moving bool
	Sprint bool
	Facing mgl64.Quat

	Terms             Terms
	DistanceToThrower float64
	BallDanger        bool
	NearWall          bool
	UnderThreat       bool
	Scared            bool
}

// Command is the intent command the step asks for.
func (o Output) Command() motion.Command {
	if o.Moving {
		return motion.SetMovementCommand(o.Move, o.Sprint)
	}
	return motion.StopCommand()
}

// Emit pushes the step's command into q.
func (o Output) Emit(q *motion.CommandQueue) bool {
	return q.Enqueue(o.Command())
}

// Engine is the per-agent steering brain. Its smoothed move vector and
// sprint timers are private to the agent.
type Engine struct {
	cfg Config
	rng *rand.Rand

	smoothed   mgl64.Vec3
	threats    ThreatCache
	sprinting  bool
	sprintEnd  float64
	lastSprint float64
}

// NewEngine creates an engine. rng drives jitter and sprint rolls; nil
// uses a fixed seed.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{
		cfg:        cfg,
		rng:        rng,
		threats:    ThreatCache{Interval: cfg.ThreatRefresh},
		lastSprint: -999,
	}
}

func (e *Engine) Config() Config { return e.cfg }

// SetConfig swaps tuning in place. Smoothing and sprint timers are kept.
func (e *Engine) SetConfig(cfg Config) {
	if e == nil {
		return
	}
	e.cfg = cfg
	e.threats.Interval = cfg.ThreatRefresh
}

func (e *Engine) Threats() *ThreatCache { return &e.threats }

func (e *Engine) Sprinting() bool { return e.sprinting }

func (e *Engine) Smoothed() mgl64.Vec2 { return ground(e.smoothed) }

// Reset clears all per-agent steering state.
func (e *Engine) Reset() {
	if e == nil {
		return
	}
	e.smoothed = mgl64.Vec3{}
	e.sprinting = false
	e.sprintEnd = 0
	e.lastSprint = -999
	e.threats.Reset()
}

// Snapshot refreshes the threat cache as needed and copies the cached ball
// into a snapshot for this tick.
func (e *Engine) Snapshot(dt float64, agent Agent, src ThreatSource) Snapshot {
	snap := Snapshot{Agent: agent}
	if t := e.threats.Update(dt, src, agent.Position, e.cfg.BallTag); t != nil {
		snap.Ball = Ball{Position: t.Position(), Velocity: t.Velocity(), Present: true}
	}
	return snap
}

// Step runs Snapshot and Compute.
func (e *Engine) Step(now, dt float64, agent Agent, src ThreatSource) Output {
	return e.Compute(now, dt, e.Snapshot(dt, agent, src))
}

// Compute composes the steering terms for snap and advances the smoothed
// move vector and sprint state. now and dt are in seconds.
func (e *Engine) Compute(now, dt float64, snap Snapshot) Output {
	cfg := e.cfg
	var f flags
	var terms Terms

	terms.Thrower = throwerTerm(cfg, snap, &f)
	terms.Ball = ballTerm(cfg, snap, &f)
	terms.Separation = separationTerm(cfg, snap)
	terms.Wall, terms.Corner = wallTerms(cfg, snap, &f)

	underThreat := f.ballDanger ||
		(snap.HasThrower && f.distThrower < cfg.SafeDistance+cfg.ThreatMargin) ||
		f.nearWall
	if underThreat && cfg.Jitter > 0 {
		a := e.rng.Float64() * 2 * math.Pi
		terms.Jitter = mgl64.Vec3{math.Cos(a), 0, math.Sin(a)}.Mul(cfg.Jitter)
	}

	steer := flat(terms.Sum())
	mag := steer.Len()
	if !underThreat && mag < cfg.IdleThreshold {
		steer = mgl64.Vec3{}
		mag = 0
	} else if mag > cfg.MaxSteer {
		steer = steer.Mul(cfg.MaxSteer / mag)
		mag = cfg.MaxSteer
	}

	facing := sanitize(snap.Facing)
	if cfg.FaceThrower && snap.HasThrower {
		if to := flat(snap.Thrower.Sub(snap.Position)); to.LenSqr() > 0.0001 {
			facing = Slerp(facing, LookRotation(to), cfg.LookAtSpeed*dt)
		}
	}

	lerp := clamp01(cfg.Smoothing)
	target := mgl64.Vec3{}
	if mag > 0.0001 {
		target = facing.Inverse().Rotate(steer.Mul(1 / mag))
		target[1] = 0
	}
	e.smoothed = e.smoothed.Add(target.Sub(e.smoothed).Mul(lerp))

	moving := e.smoothed.LenSqr() > cfg.MoveThreshold
	scared := (snap.HasThrower && f.distThrower < cfg.PanicDistance) || f.ballDanger
	e.updateSprint(now, moving, scared)

	return Output{
		World:             steer,
		Move:              ground(e.smoothed),
		Moving:            moving,
		Sprint:            e.sprinting,
		Facing:            facing,
		Terms:             terms,
		DistanceToThrower: f.distThrower,
		BallDanger:        f.ballDanger,
		NearWall:          f.nearWall,
		UnderThreat:       underThreat,
		Scared:            scared,
	}
}

// updateSprint grants a burst at most once per cooldown while scared and
// ends it after its fixed duration.
func (e *Engine) updateSprint(now float64, moving, scared bool) {
	if moving && scared && !e.sprinting && now-e.lastSprint > e.cfg.SprintCooldown {
		if e.rng.Float64() < e.cfg.SprintChance {
			e.sprinting = true
			e.sprintEnd = now + e.cfg.SprintBurst
			e.lastSprint = now
		}
	}
	if e.sprinting && now >= e.sprintEnd {
		e.sprinting = false
	}
}
