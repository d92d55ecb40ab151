// Command simulate runs an arena headless at a fixed frame rate and prints
// every locomotion transition, throw and hit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/ballblitz/arena"
	"github.com/milk9111/ballblitz/ecs"
	"github.com/milk9111/ballblitz/ecs/component"
)

func main() {
	ticks := flag.Int("ticks", 600, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60, "frame length in seconds")
	seed := flag.Int64("seed", 1, "seed for steering jitter and sprint rolls")
	dodgers := flag.Int("dodgers", -1, "number of dodgers (-1 uses the arena spec)")
	drill := flag.Bool("drill", true, "add the scripted drill agent")
	spec := flag.String("arena", "", "arena prefab (default arena.yaml)")
	quiet := flag.Bool("q", false, "only print the summary")
	flag.Parse()

	if *dt <= 0 {
		log.Fatalf("simulate: dt must be positive, got %v", *dt)
	}

	a, err := arena.New(arena.Options{
		Spec:      *spec,
		Dodgers:   *dodgers,
		Seed:      *seed,
		Drill:     *drill,
		AutoThrow: true,
	})
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}

	names := func(e ecs.Entity) string {
		if n, ok := ecs.Get(a.World, e, component.NameComponent.Kind()); ok {
			return n.Value
		}
		return e.String()
	}

	transitions, throws, hits := 0, 0, 0
	for i := 0; i < *ticks; i++ {
		a.Step(*dt)
		for _, evt := range a.Events() {
			switch data := evt.Data.(type) {
			case ecs.StateChangedEvent:
				transitions++
				if !*quiet {
					fmt.Printf("%8.3f %-10s %s -> %s\n", a.Now(), names(data.Entity), data.From, data.To)
				}
			case ecs.BallThrownEvent:
				throws++
				if !*quiet {
					fmt.Printf("%8.3f %-10s throws ball %s\n", a.Now(), names(data.Thrower), data.Ball)
				}
			case ecs.BallHitEvent:
				hits++
				if !*quiet {
					fmt.Printf("%8.3f %-10s hit by ball %s\n", a.Now(), names(data.Agent), data.Ball)
				}
			}
		}
	}

	fmt.Fprintf(os.Stdout, "frames=%d time=%.2fs transitions=%d throws=%d hits=%d\n", a.Frame(), a.Now(), transitions, throws, hits)
}
