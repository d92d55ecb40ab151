package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ballblitz/arena"
	"github.com/milk9111/ballblitz/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "draw steering terms and physics shapes")
	dodgers := flag.Int("dodgers", -1, "number of dodgers (-1 uses the arena spec)")
	seed := flag.Int64("seed", 1, "seed for steering jitter and sprint rolls")
	drill := flag.Bool("drill", false, "add the scripted drill agent")
	auto := flag.Bool("auto", false, "let the autothrow script drive the thrower")
	spec := flag.String("arena", "", "arena prefab (default arena.yaml)")
	watch := flag.Bool("watch", true, "hot reload prefabs and scripts from disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("ball blitz")

	game, err := NewGame(arena.Options{
		Spec:      *spec,
		Dodgers:   *dodgers,
		Seed:      *seed,
		Drill:     *drill,
		AutoThrow: *auto,
	}, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
