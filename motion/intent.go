package motion

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Intent is the continuous movement request of an agent. Direction.X is the
// lateral axis and Direction.Y the forward axis, both in [-1, 1].
type Intent struct {
	Direction  mgl64.Vec2
	WantSprint bool
}

func (i Intent) Lateral() float64 { return i.Direction.X() }
func (i Intent) Forward() float64 { return i.Direction.Y() }

func clampIntent(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{mgl64.Clamp(v.X(), -1, 1), mgl64.Clamp(v.Y(), -1, 1)}
}

// MoveDir is a discrete movement preset.
type MoveDir uint8

const (
	MoveIdle MoveDir = iota
	MoveForward
	MoveBackward
	MoveLeft
	MoveRight
	MoveForwardLeft
	MoveForwardRight
	MoveBackLeft
	MoveBackRight
	MoveSprint
)

var moveDirNames = [...]string{
	MoveIdle:         "idle",
	MoveForward:      "forward",
	MoveBackward:     "backward",
	MoveLeft:         "left",
	MoveRight:        "right",
	MoveForwardLeft:  "forward_left",
	MoveForwardRight: "forward_right",
	MoveBackLeft:     "back_left",
	MoveBackRight:    "back_right",
	MoveSprint:       "sprint",
}

func (d MoveDir) String() string {
	if int(d) < len(moveDirNames) {
		return moveDirNames[d]
	}
	return "unknown"
}

// ParseMoveDir resolves a preset from its String form.
func ParseMoveDir(name string) (MoveDir, bool) {
	for i, n := range moveDirNames {
		if n == name {
			return MoveDir(i), true
		}
	}
	return MoveIdle, false
}

var diagonal = mgl64.Vec2{0.6, 0.8}.Normalize()

// Intent returns the intent a preset stands for.
func (d MoveDir) Intent() Intent {
	switch d {
	case MoveForward:
		return Intent{Direction: mgl64.Vec2{0, 1}}
	case MoveBackward:
		return Intent{Direction: mgl64.Vec2{0, -1}}
	case MoveLeft:
		return Intent{Direction: mgl64.Vec2{-1, 0}}
	case MoveRight:
		return Intent{Direction: mgl64.Vec2{1, 0}}
	case MoveForwardLeft:
		return Intent{Direction: mgl64.Vec2{-diagonal.X(), diagonal.Y()}}
	case MoveForwardRight:
		return Intent{Direction: mgl64.Vec2{diagonal.X(), diagonal.Y()}}
	case MoveBackLeft:
		return Intent{Direction: mgl64.Vec2{-diagonal.X(), -diagonal.Y()}}
	case MoveBackRight:
		return Intent{Direction: mgl64.Vec2{diagonal.X(), -diagonal.Y()}}
	case MoveSprint:
		return Intent{Direction: mgl64.Vec2{0, 1}, WantSprint: true}
	default:
		return Intent{}
	}
}
