package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

// InputSystem samples keyboard, mouse and the first gamepad into every
// Input component. Movement is in court space: W is -Z, D is +X.
type InputSystem struct {
	// ScreenToCourt maps a cursor position to the court, when set.
	ScreenToCourt func(x, y int) (mgl64.Vec3, bool)
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	const stickDeadzone = 0.2

	move := mgl64.Vec2{}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move[1] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move[1] += 1
	}
	sprint := ebiten.IsKeyPressed(ebiten.KeyShift)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	throwPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	var aim mgl64.Vec3
	hasAim := false
	if i != nil && i.ScreenToCourt != nil {
		aim, hasAim = i.ScreenToCourt(ebiten.CursorPosition())
	}

	var stick mgl64.Vec2
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			move = mgl64.Vec2{lx, ly}
		}
		sprint = sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		throwPressed = throwPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			stick = mgl64.Vec2{rx, ry}
		}
	}
	if move.Len() > 1 {
		move = move.Normalize()
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Move = move
		input.Sprint = sprint
		input.JumpPressed = jumpPressed
		input.ThrowPressed = input.ThrowPressed || throwPressed
		input.Aim = aim
		input.HasAim = hasAim
		if stick != (mgl64.Vec2{}) {
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				input.Aim = t.Position.Add(mgl64.Vec3{stick.X(), 0, stick.Y()}.Mul(5))
				input.HasAim = true
			}
		}
	})
}
