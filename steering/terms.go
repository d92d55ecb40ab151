package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Terms are the individual weighted contributions of one step.
type Terms struct {
	Thrower    mgl64.Vec3
	Ball       mgl64.Vec3
	Separation mgl64.Vec3
	Wall       mgl64.Vec3
	Corner     mgl64.Vec3
	Jitter     mgl64.Vec3
}

func (t Terms) Sum() mgl64.Vec3 {
	return t.Thrower.Add(t.Ball).Add(t.Separation).Add(t.Wall).Add(t.Corner).Add(t.Jitter)
}

// flags gathered while composing terms.
type flags struct {
	distThrower float64
	ballDanger  bool
	nearWall    bool
}

func clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

func flat(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

func ground(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), v.Z()}
}

// ramp is 0 at radius and 1 at distance 0.
func ramp(radius, d float64) float64 {
	if radius <= 0 {
		return 0
	}
	return clamp01((radius - d) / radius)
}

func throwerTerm(cfg Config, snap Snapshot, f *flags) mgl64.Vec3 {
	f.distThrower = math.Inf(1)
	if !snap.HasThrower {
		return mgl64.Vec3{}
	}
	to := flat(snap.Thrower.Sub(snap.Position))
	d := to.Len()
	f.distThrower = d
	if d >= cfg.SafeDistance || d < 1e-6 {
		return mgl64.Vec3{}
	}
	return to.Mul(-1 / d).Mul(cfg.ThrowerWeight * ramp(cfg.SafeDistance, d))
}

func ballTerm(cfg Config, snap Snapshot, f *flags) mgl64.Vec3 {
	if !snap.Ball.Present {
		return mgl64.Vec3{}
	}
	toAgent := snap.Position.Sub(snap.Ball.Position)
	d := toAgent.Len()
	if d >= cfg.BallAwareness || d < 1e-6 {
		return mgl64.Vec3{}
	}
	var heading mgl64.Vec3
	if v := snap.Ball.Velocity; v.LenSqr() > 0.01 {
		heading = v.Normalize()
	}
	away := toAgent.Mul(1 / d)
	if heading.Dot(away) <= cfg.ApproachDot {
		return mgl64.Vec3{}
	}
	f.ballDanger = d < cfg.BallDanger
	factor := cfg.AwareFactor
	if f.ballDanger {
		factor = cfg.DangerFactor
	}
	return away.Mul(cfg.BallWeight * factor * ramp(cfg.BallDanger, d))
}

func separationTerm(cfg Config, snap Snapshot) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, mate := range snap.Teammates {
		delta := flat(snap.Position.Sub(mate))
		d := delta.Len()
		if d <= 0.001 || d >= cfg.SeparationRadius {
			continue
		}
		sum = sum.Add(delta.Mul(1 / d).Mul(cfg.SeparationWeight * ramp(cfg.SeparationRadius, d)))
	}
	return sum
}

// wallTerms pushes toward the court center near any bound and, with the
// thrower close, toward the opposite corner.
func wallTerms(cfg Config, snap Snapshot, f *flags) (wall, corner mgl64.Vec3) {
	court := cfg.Court
	if court.Max.X() <= court.Min.X() || court.Max.Y() <= court.Min.Y() {
		return
	}
	p := ground(snap.Position)
	center := court.Center()

	f.nearWall = p.X()-court.Min.X() < cfg.WallBuffer ||
		court.Max.X()-p.X() < cfg.WallBuffer ||
		p.Y()-court.Min.Y() < cfg.WallBuffer ||
		court.Max.Y()-p.Y() < cfg.WallBuffer
	if !f.nearWall {
		return
	}

	if to := center.Sub(p); to.LenSqr() > 1e-12 {
		to = to.Normalize().Mul(cfg.WallWeight)
		wall = mgl64.Vec3{to.X(), 0, to.Y()}
	}

	if !snap.HasThrower || f.distThrower >= cfg.CornerPanicDistance {
		return
	}
	mirrored := mgl64.Vec2{court.Min.X() + cfg.CornerInset, court.Min.Y() + cfg.CornerInset}
	if p.X() < center.X() {
		mirrored[0] = court.Max.X() - cfg.CornerInset
	}
	if p.Y() < center.Y() {
		mirrored[1] = court.Max.Y() - cfg.CornerInset
	}
	if to := mirrored.Sub(p); to.LenSqr() > 1e-12 {
		to = to.Normalize().Mul(cfg.CornerWeight)
		corner = mgl64.Vec3{to.X(), 0, to.Y()}
	}
	return
}
