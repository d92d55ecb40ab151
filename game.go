package main

import (
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ballblitz/arena"
	"github.com/milk9111/ballblitz/common"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/system"
	"github.com/milk9111/ballblitz/prefabs"
)

type Game struct {
	arena   *arena.Arena
	input   *system.InputSystem
	render  *system.RenderSystem
	watcher *prefabs.Watcher

	paused  bool
	pauseUI *ebitenui.UI
	quit    bool
	log     []string
}

func NewGame(opts arena.Options, debug bool) (*Game, error) {
	g := &Game{input: system.NewInputSystem()}
	opts.Input = g.input

	a, err := arena.New(opts)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.arena = a
	g.render = system.NewRenderSystem(system.FitCamera(a.Spec.Court.Court(), common.BaseWidth, common.BaseHeight))
	g.render.Debug = debug
	g.input.ScreenToCourt = g.render.Camera.ToCourt
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.render.Debug = !g.render.Debug
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.watcher != nil {
		if changed := g.watcher.Drain(); len(changed) > 0 {
			g.arena.Reload(changed)
		}
	}

	g.arena.Step(1 / float64(ebiten.TPS()))
	for _, evt := range g.arena.Events() {
		g.record(evt)
	}
	return nil
}

func (g *Game) record(evt ecs.Event) {
	var line string
	switch data := evt.Data.(type) {
	case ecs.StateChangedEvent:
		if !g.render.Debug {
			return
		}
		line = fmt.Sprintf("%s: %s -> %s", data.Entity, data.From, data.To)
	case ecs.BallHitEvent:
		line = fmt.Sprintf("hit: %s by ball %s", data.Agent, data.Ball)
	default:
		return
	}
	g.log = append(g.log, line)
	if len(g.log) > 8 {
		g.log = g.log[len(g.log)-8:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.arena.World, screen)
	drawLog(screen, g.log)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) reset() {
	if err := g.arena.Reset(); err != nil {
		log.Printf("game: reset: %v", err)
		return
	}
	g.log = nil
	g.paused = false
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
