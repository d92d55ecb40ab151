package ecs

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/steering"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeAgent
	collisionTypeBall
)

const (
	categoryWall uint = 1 << iota
	categoryAgent
	// tag categories are allocated from here up
	categoryTagBase
)

// PhysicsConfig tunes the arena space.
type PhysicsConfig struct {
	Iterations     int
	Damping        float64
	WallThickness  float64
	WallElasticity float64
	// AgentHeight is how tall an agent is for ball hits.
	AgentHeight float64
	// BallGravity pulls thrown balls down (negative).
	BallGravity float64
	// QueryRadius bounds nearest-threat lookups.
	QueryRadius float64
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Iterations:     20,
		Damping:        1,
		WallThickness:  0.1,
		WallElasticity: 0.7,
		AgentHeight:    1.8,
		BallGravity:    -9.81,
		QueryRadius:    100,
	}
}

// BallHit is a ball touching an agent below head height.
type BallHit struct {
	Ball  Entity
	Agent Entity
}

// PhysicsWorld owns the Chipmunk space for the court. The space is planar:
// cp X is world X and cp Y is world Z.
type PhysicsWorld struct {
	cfg           PhysicsConfig
	court         steering.Court
	space         *cp.Space
	handlersReady bool

	shapeToEntity map[*cp.Shape]Entity
	agents        map[Entity]*component.AgentBody
	balls         map[Entity]*component.Ball
	tags          map[string]uint
	walls         []*cp.Shape
	hits          []BallHit
}

// NewPhysicsWorld creates a zero-gravity space walled in by court.
func NewPhysicsWorld(court steering.Court, cfg PhysicsConfig) *PhysicsWorld {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultPhysicsConfig().Iterations
	}
	if cfg.QueryRadius <= 0 {
		cfg.QueryRadius = DefaultPhysicsConfig().QueryRadius
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{})
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	pw := &PhysicsWorld{
		cfg:           cfg,
		court:         court,
		space:         space,
		shapeToEntity: make(map[*cp.Shape]Entity),
		agents:        make(map[Entity]*component.AgentBody),
		balls:         make(map[Entity]*component.Ball),
		tags:          make(map[string]uint),
	}
	pw.buildWalls()
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Court() steering.Court {
	if pw == nil {
		return steering.Court{}
	}
	return pw.court
}

func (pw *PhysicsWorld) Config() PhysicsConfig {
	if pw == nil {
		return PhysicsConfig{}
	}
	return pw.cfg
}

// AddAgent creates a circular agent body at pos.
func (pw *PhysicsWorld) AddAgent(e Entity, pos mgl64.Vec3, radius, mass float64) *component.AgentBody {
	if pw == nil || pw.space == nil {
		return nil
	}
	if b, ok := pw.agents[e]; ok {
		return b
	}
	if radius <= 0 {
		radius = 0.4
	}
	if mass <= 0 {
		mass = 70
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Z()})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeAgent)
	shape.SetFilter(cp.NewShapeFilter(0, categoryAgent, cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	ab := component.NewAgentBody(body, shape, radius)
	ab.Teleport(pos)
	pw.agents[e] = ab
	return ab
}

// AddBall creates a ball carrying tag, thrown with velocity vel.
func (pw *PhysicsWorld) AddBall(e Entity, tag string, pos, vel mgl64.Vec3, radius, mass float64) *component.Ball {
	if pw == nil || pw.space == nil {
		return nil
	}
	if radius <= 0 {
		radius = 0.11
	}
	if mass <= 0 {
		mass = 0.6
	}

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Z()})
	body.SetVelocityVector(cp.Vector{X: vel.X(), Y: vel.Z()})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(pw.cfg.WallElasticity)
	shape.SetFriction(0.2)
	shape.SetCollisionType(collisionTypeBall)
	shape.SetFilter(cp.NewShapeFilter(0, pw.tagCategory(tag), cp.ALL_CATEGORIES))

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	b := &component.Ball{
		Body:             body,
		Shape:            shape,
		Tag:              tag,
		Radius:           radius,
		Elevation:        math.Max(pos.Y(), radius),
		VerticalVelocity: vel.Y(),
		Bounce:           0.5,
	}
	pw.balls[e] = b
	return b
}

// Remove drops any body owned by e.
func (pw *PhysicsWorld) Remove(e Entity) {
	if pw == nil || pw.space == nil {
		return
	}
	if b, ok := pw.agents[e]; ok {
		pw.removeShape(b.Shape)
		if b.Body != nil {
			pw.space.RemoveBody(b.Body)
		}
		delete(pw.agents, e)
	}
	if b, ok := pw.balls[e]; ok {
		b.Remove()
		pw.removeShape(b.Shape)
		if b.Body != nil {
			pw.space.RemoveBody(b.Body)
		}
		delete(pw.balls, e)
	}
}

func (pw *PhysicsWorld) removeShape(s *cp.Shape) {
	if s == nil {
		return
	}
	delete(pw.shapeToEntity, s)
	pw.space.RemoveShape(s)
}

func (pw *PhysicsWorld) Agent(e Entity) (*component.AgentBody, bool) {
	if pw == nil {
		return nil, false
	}
	b, ok := pw.agents[e]
	return b, ok
}

func (pw *PhysicsWorld) Ball(e Entity) (*component.Ball, bool) {
	if pw == nil {
		return nil, false
	}
	b, ok := pw.balls[e]
	return b, ok
}

// Nearest returns the closest live object carrying tag, or nil. It
// satisfies steering.ThreatSource.
func (pw *PhysicsWorld) Nearest(pos mgl64.Vec3, tag string) steering.Threat {
	if pw == nil || pw.space == nil || tag == "" {
		return nil
	}
	category, ok := pw.tags[tag]
	if !ok {
		return nil
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, category)
	info := pw.space.PointQueryNearest(cp.Vector{X: pos.X(), Y: pos.Z()}, pw.cfg.QueryRadius, filter)
	if info == nil || info.Shape == nil {
		return nil
	}
	e, ok := pw.shapeToEntity[info.Shape]
	if !ok {
		return nil
	}
	b, ok := pw.balls[e]
	if !ok || !b.Valid() || b.Tag != tag {
		return nil
	}
	return b
}

// Step flushes agent displacements into velocities and advances the space.
// Balls also get their vertical arc integrated with a floor bounce.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	for _, b := range pw.agents {
		b.Flush(dt)
	}
	for _, b := range pw.balls {
		b.VerticalVelocity += pw.cfg.BallGravity * dt
		b.Elevation += b.VerticalVelocity * dt
		if b.Elevation < b.Radius {
			b.Elevation = b.Radius
			if b.VerticalVelocity < 0 {
				b.VerticalVelocity = -b.VerticalVelocity * b.Bounce
			}
		}
	}
	pw.space.Step(dt)
	pw.containAgents()
}

// containAgents clamps every agent circle inside the court and drops the
// velocity component pointing into the wall.
func (pw *PhysicsWorld) containAgents() {
	lo, hi := pw.court.Min, pw.court.Max
	if hi.X() <= lo.X() || hi.Y() <= lo.Y() {
		return
	}
	for _, b := range pw.agents {
		if b.Body == nil {
			continue
		}
		p := b.Body.Position()
		v := b.Body.Velocity()
		r := b.Radius
		clamped := false
		if edge := lo.X() + r; p.X < edge {
			p.X, clamped = edge, true
			v.X = math.Max(v.X, 0)
		} else if edge := hi.X() - r; p.X > edge {
			p.X, clamped = edge, true
			v.X = math.Min(v.X, 0)
		}
		if edge := lo.Y() + r; p.Y < edge {
			p.Y, clamped = edge, true
			v.Y = math.Max(v.Y, 0)
		} else if edge := hi.Y() - r; p.Y > edge {
			p.Y, clamped = edge, true
			v.Y = math.Min(v.Y, 0)
		}
		if clamped {
			b.Body.SetPosition(p)
			b.Body.SetVelocityVector(v)
		}
	}
}

// DrainHits returns the ball hits recorded since the last call.
func (pw *PhysicsWorld) DrainHits() []BallHit {
	if pw == nil || len(pw.hits) == 0 {
		return nil
	}
	out := pw.hits
	pw.hits = nil
	return out
}

func (pw *PhysicsWorld) tagCategory(tag string) uint {
	if c, ok := pw.tags[tag]; ok {
		return c
	}
	c := categoryTagBase << uint(len(pw.tags))
	if c == 0 {
		log.Printf("PhysicsWorld: out of shape categories for tag %q", tag)
		return categoryTagBase
	}
	pw.tags[tag] = c
	return c
}

func (pw *PhysicsWorld) buildWalls() {
	lo, hi := pw.court.Min, pw.court.Max
	if hi.X() <= lo.X() || hi.Y() <= lo.Y() {
		log.Printf("PhysicsWorld: empty court %v..%v, no walls built", lo, hi)
		return
	}
	corners := []cp.Vector{
		{X: lo.X(), Y: lo.Y()},
		{X: hi.X(), Y: lo.Y()},
		{X: hi.X(), Y: hi.Y()},
		{X: lo.X(), Y: hi.Y()},
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		shape := cp.NewSegment(pw.space.StaticBody, a, b, pw.cfg.WallThickness)
		shape.SetElasticity(pw.cfg.WallElasticity)
		shape.SetFriction(0.5)
		shape.SetCollisionType(collisionTypeWall)
		shape.SetFilter(cp.NewShapeFilter(0, categoryWall, cp.ALL_CATEGORIES))
		pw.space.AddShape(shape)
		pw.walls = append(pw.walls, shape)
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	hitHandler := pw.space.NewCollisionHandler(collisionTypeBall, collisionTypeAgent)
	hitHandler.UserData = pw
	hitHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ballEnt, okA := world.shapeToEntity[shapeA]
		agentEnt, okB := world.shapeToEntity[shapeB]
		if !okA || !okB {
			return true
		}
		ball := world.balls[ballEnt]
		if ball == nil {
			return true
		}
		// overhead balls pass
		if ball.Elevation-ball.Radius > world.cfg.AgentHeight {
			return false
		}
		world.hits = append(world.hits, BallHit{Ball: ballEnt, Agent: agentEnt})
		return true
	}

	pw.handlersReady = true
}
