package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// AgentBody is the physical body of an agent. The cp body carries the
// ground-plane motion (cp X is world X, cp Y is world Z); elevation is
// integrated here.
type AgentBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64

	// Elevation is the height of the feet above the court.
	Elevation float64

	heading  mgl64.Quat
	pending  mgl64.Vec2
	grounded bool
}

// NewAgentBody wraps an already created cp body and shape.
func NewAgentBody(body *cp.Body, shape *cp.Shape, radius float64) *AgentBody {
	return &AgentBody{Body: body, Shape: shape, Radius: radius, heading: mgl64.QuatIdent(), grounded: true}
}

// Move accumulates a horizontal displacement for the next physics step and
// applies the vertical part immediately, clamping at the court surface.
func (b *AgentBody) Move(d mgl64.Vec3) {
	if b == nil {
		return
	}
	b.pending = b.pending.Add(mgl64.Vec2{d.X(), d.Z()})
	b.Elevation += d.Y()
	if b.Elevation <= 0 {
		b.Elevation = 0
		b.grounded = true
		return
	}
	b.grounded = false
}

func (b *AgentBody) Grounded() bool {
	return b != nil && b.grounded
}

func (b *AgentBody) Heading() mgl64.Quat {
	if b == nil {
		return mgl64.QuatIdent()
	}
	return b.heading
}

func (b *AgentBody) SetHeading(q mgl64.Quat) {
	if b == nil {
		return
	}
	b.heading = q
}

// Flush turns the displacement accumulated since the last step into a body
// velocity for a step of length dt.
func (b *AgentBody) Flush(dt float64) {
	if b == nil || b.Body == nil || dt <= 0 {
		return
	}
	v := b.pending.Mul(1 / dt)
	b.pending = mgl64.Vec2{}
	b.Body.SetVelocityVector(cp.Vector{X: v.X(), Y: v.Y()})
}

// Position is the body's feet position in arena space.
func (b *AgentBody) Position() mgl64.Vec3 {
	if b == nil || b.Body == nil {
		return mgl64.Vec3{}
	}
	p := b.Body.Position()
	return mgl64.Vec3{p.X, b.Elevation, p.Y}
}

// Teleport places the body, dropping any pending motion.
func (b *AgentBody) Teleport(pos mgl64.Vec3) {
	if b == nil || b.Body == nil {
		return
	}
	b.pending = mgl64.Vec2{}
	b.Elevation = pos.Y()
	b.grounded = b.Elevation <= 0
	if b.grounded {
		b.Elevation = 0
	}
	b.Body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Z()})
	b.Body.SetVelocityVector(cp.Vector{})
}

var AgentBodyComponent = NewComponent[AgentBody]()

// Ball is a thrown ball. It satisfies steering.Threat.
type Ball struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Tag    string
	Radius float64

	Elevation        float64
	VerticalVelocity float64
	Bounce           float64

	removed bool
}

func (b *Ball) Position() mgl64.Vec3 {
	if b == nil || b.Body == nil {
		return mgl64.Vec3{}
	}
	p := b.Body.Position()
	return mgl64.Vec3{p.X, b.Elevation, p.Y}
}

func (b *Ball) Velocity() mgl64.Vec3 {
	if b == nil || b.Body == nil {
		return mgl64.Vec3{}
	}
	v := b.Body.Velocity()
	return mgl64.Vec3{v.X, b.VerticalVelocity, v.Y}
}

func (b *Ball) Valid() bool {
	return b != nil && !b.removed && b.Body != nil
}

// Remove marks the ball destroyed. Cached references see Valid() == false.
func (b *Ball) Remove() {
	if b == nil {
		return
	}
	b.removed = true
}

var BallComponent = NewComponent[Ball]()
