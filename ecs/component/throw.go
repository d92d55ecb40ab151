package component

import "github.com/go-gl/mathgl/mgl64"

// Thrower tunes and tracks the pickup and throw sequence.
type Thrower struct {
	Clip     string
	Delay    float64
	Recover  float64
	Force    float64
	Lift     float64
	Cooldown float64

	Active  bool
	Elapsed float64
	Thrown  bool
	Target  mgl64.Vec3
	Ready   float64
}

var ThrowerComponent = NewComponent[Thrower]()

// TTL destroys an entity once Remaining reaches zero.
type TTL struct {
	Remaining float64
}

var TTLComponent = NewComponent[TTL]()
