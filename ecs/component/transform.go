package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's pose in arena space. Y is up; the court lies on XZ.
type Transform struct {
	Position mgl64.Vec3
	Facing   mgl64.Quat
}

var TransformComponent = NewComponent[Transform]()
