package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame input state for an entity.
type Input struct {
	// Move is the wanted ground-plane direction in world space (x, z),
	// normalized to length <= 1.
	Move         mgl64.Vec2
	Sprint       bool
	JumpPressed  bool
	ThrowPressed bool
	Aim          mgl64.Vec3
	HasAim       bool
}

var InputComponent = NewComponent[Input]()
