package system

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ballblitz/common"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
	"github.com/milk9111/ballblitz/motion"
	"github.com/milk9111/ballblitz/steering"
	"golang.org/x/image/colornames"
)

// Camera maps the court (X right, Z down the screen) to screen pixels.
type Camera struct {
	Center mgl64.Vec2
	Scale  float64
	Width  float64
	Height float64
}

// FitCamera centers court in a width x height screen with a margin.
func FitCamera(court steering.Court, width, height float64) Camera {
	size := court.Max.Sub(court.Min)
	scale := 40.0
	if size.X() > 0 && size.Y() > 0 {
		scale = min(width/(size.X()+2), height/(size.Y()+2))
	}
	return Camera{Center: court.Center(), Scale: scale, Width: width, Height: height}
}

func (c Camera) ToScreen(p mgl64.Vec3) (float32, float32) {
	x := c.Width/2 + (p.X()-c.Center.X())*c.Scale
	y := c.Height/2 + (p.Z()-c.Center.Y())*c.Scale
	return float32(x), float32(y)
}

// ToCourt maps a screen pixel back onto the court plane.
func (c Camera) ToCourt(x, y int) (mgl64.Vec3, bool) {
	if c.Scale <= 0 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{
		c.Center.X() + (float64(x)-c.Width/2)/c.Scale,
		0,
		c.Center.Y() + (float64(y)-c.Height/2)/c.Scale,
	}, true
}

// RenderSystem draws the court top-down with a text HUD.
type RenderSystem struct {
	Camera Camera
	Debug  bool
}

func NewRenderSystem(cam Camera) *RenderSystem {
	return &RenderSystem{Camera: cam}
}

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(color.RGBA{R: 0x1b, G: 0x26, B: 0x33, A: 0xff})
	r.drawCourt(w, screen)

	ecs.ForEach(w, component.BallComponent.Kind(), func(_ ecs.Entity, b *component.Ball) {
		if !b.Valid() {
			return
		}
		pos := b.Position()
		x, y := r.Camera.ToScreen(mgl64.Vec3{pos.X(), 0, pos.Z()})
		rad := float32(b.Radius * r.Camera.Scale)
		// shadow shrinks as the ball rises
		shadow := common.Lerp(rad, rad*0.5, common.Clamp01(float32(pos.Y()/3)))
		vector.FillCircle(screen, x, y, shadow, color.RGBA{A: 0x60}, true)
		lift := float32(pos.Y() * r.Camera.Scale * 0.3)
		vector.FillCircle(screen, x, y-lift, rad*1.3, colornames.Gold, true)
	})

	ecs.ForEach2(w, component.AgentBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.AgentBody, t *component.Transform) {
		x, y := r.Camera.ToScreen(t.Position)
		rad := float32(b.Radius * r.Camera.Scale)
		fill := stateColor(w, e)
		if ecs.Has(w, e, component.ThrowerTagComponent.Kind()) {
			fill = colornames.Crimson
		}
		if !b.Grounded() {
			vector.FillCircle(screen, x, y, rad, color.RGBA{A: 0x60}, true)
			y -= float32(t.Position.Y() * r.Camera.Scale * 0.3)
		}
		vector.FillCircle(screen, x, y, rad, fill, true)
		if a, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
			if alpha := crossfadeAlpha(a); alpha > 0 {
				vector.StrokeCircle(screen, x, y, rad+2, 2, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha}, true)
			}
		}

		f := t.Facing.Rotate(mgl64.Vec3{0, 0, 1})
		fx, fy := x+float32(f.X())*rad*1.6, y+float32(f.Z())*rad*1.6
		vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.White, true)

		if r.Debug {
			r.drawSteering(w, e, t, screen)
		}
	})

	if r.Debug {
		DrawPhysicsDebug(w.PhysicsWorld().Space(), r.Camera, screen)
	}
	r.drawHUD(w, screen)
}

func (r *RenderSystem) drawCourt(w *ecs.World, screen *ebiten.Image) {
	court := w.PhysicsWorld().Court()
	x0, y0 := r.Camera.ToScreen(mgl64.Vec3{court.Min.X(), 0, court.Min.Y()})
	x1, y1 := r.Camera.ToScreen(mgl64.Vec3{court.Max.X(), 0, court.Max.Y()})
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 0x2e, G: 0x54, B: 0x3a, A: 0xff}, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 3, colornames.Beige, false)
}

func (r *RenderSystem) drawSteering(w *ecs.World, e ecs.Entity, t *component.Transform, screen *ebiten.Image) {
	st, ok := ecs.Get(w, e, component.SteeringComponent.Kind())
	if !ok {
		return
	}
	x, y := r.Camera.ToScreen(t.Position)
	terms := []struct {
		v   mgl64.Vec3
		clr color.Color
	}{
		{st.Last.Terms.Thrower, colornames.Red},
		{st.Last.Terms.Ball, colornames.Yellow},
		{st.Last.Terms.Separation, colornames.Skyblue},
		{st.Last.Terms.Wall.Add(st.Last.Terms.Corner), colornames.Orange},
		{st.Last.World, colornames.White},
	}
	for _, term := range terms {
		if term.v.LenSqr() < 1e-6 {
			continue
		}
		ex := x + float32(term.v.X()*r.Camera.Scale)
		ey := y + float32(term.v.Z()*r.Camera.Scale)
		vector.StrokeLine(screen, x, y, ex, ey, 1, term.clr, true)
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	type row struct {
		name, text string
	}
	var rows []row
	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.NameComponent.Kind(), func(e ecs.Entity, l *component.Locomotion, n *component.Name) {
		if l.Machine == nil {
			return
		}
		m := l.Machine
		text := fmt.Sprintf("%-22s %-17s", n.Value, m.Current())
		if r.Debug {
			text += fmt.Sprintf(" %-7s %-9s q=%d", m.MotionPhase(), m.JumpPhase(), m.Queue().Len())
			if st, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok && st.Last.Sprint {
				text += " sprint"
			}
		}
		rows = append(rows, row{name: n.Value, text: text})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS: %.1f  TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	for _, rw := range rows {
		sb.WriteString(rw.text)
		sb.WriteByte('\n')
	}
	ebitenutil.DebugPrintAt(screen, sb.String(), 8, 8)
}

func stateColor(w *ecs.World, e ecs.Entity) color.Color {
	l, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || l.Machine == nil {
		return colornames.Lightgray
	}
	switch s := l.Machine.Current(); {
	case s == motion.Idle:
		return colornames.Lightsteelblue
	case s == motion.Jump:
		return colornames.Violet
	case s.SinglePlay():
		return colornames.Orange
	default:
		return colornames.Dodgerblue
	}
}

// crossfadeAlpha fades a ring out as the current clip blends in.
func crossfadeAlpha(a *component.Animation) uint8 {
	if a == nil || !a.InTransition() {
		return 0
	}
	return uint8(common.Clamp01(float32(1-a.Blend())) * 0xff)
}
