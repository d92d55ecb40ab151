package component

// AnimationDef describes one clip. Only timing matters to the simulation.
type AnimationDef struct {
	Name     string
	Duration float64
	Loop     bool
}

const defaultClipDuration = 1.0

// Animation is a time-based clip player. It satisfies motion.Animator: the
// animation system advances it and the locomotion machine requests clips.
type Animation struct {
	Defs map[string]AnimationDef

	Current  string
	Previous string
	Time     float64
	Speed    float64

	// Fade is the length of the running crossfade, FadeTime its progress.
	Fade     float64
	FadeTime float64

	// Requests counts accepted RequestState calls.
	Requests int
}

func NewAnimation(defs []AnimationDef) *Animation {
	a := &Animation{Defs: make(map[string]AnimationDef, len(defs)), Speed: 1}
	for _, d := range defs {
		if d.Name == "" {
			continue
		}
		a.Defs[d.Name] = d
	}
	return a
}

func (a *Animation) Def(clip string) AnimationDef {
	if a == nil {
		return AnimationDef{}
	}
	if d, ok := a.Defs[clip]; ok && d.Duration > 0 {
		return d
	}
	return AnimationDef{Name: clip, Duration: defaultClipDuration}
}

// RequestState starts clip from its beginning, cutting over when immediate
// or crossfading over fade seconds otherwise.
func (a *Animation) RequestState(clip string, immediate bool, fade float64) {
	if a == nil || clip == "" {
		return
	}
	a.Requests++
	if immediate || fade <= 0 || a.Current == "" {
		a.Previous = ""
		a.Fade = 0
		a.FadeTime = 0
	} else {
		a.Previous = a.Current
		a.Fade = fade
		a.FadeTime = 0
	}
	a.Current = clip
	a.Time = 0
}

func (a *Animation) CurrentClip() string {
	if a == nil {
		return ""
	}
	return a.Current
}

// Progress is the normalized time of the current clip. Looping clips keep
// counting past 1.
func (a *Animation) Progress() float64 {
	if a == nil || a.Current == "" {
		return 0
	}
	return a.Time / a.Def(a.Current).Duration
}

func (a *Animation) InTransition() bool {
	return a != nil && a.Fade > 0 && a.FadeTime < a.Fade
}

func (a *Animation) SetSpeed(v float64) {
	if a == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	a.Speed = v
}

// Blend is the weight of the current clip during a crossfade.
func (a *Animation) Blend() float64 {
	if !a.InTransition() {
		return 1
	}
	return a.FadeTime / a.Fade
}

// Advance moves the player forward by dt seconds of wall time.
func (a *Animation) Advance(dt float64) {
	if a == nil || a.Current == "" || dt <= 0 {
		return
	}
	if a.InTransition() {
		a.FadeTime += dt
		if a.FadeTime >= a.Fade {
			a.Previous = ""
			a.Fade = 0
			a.FadeTime = 0
		}
	}
	def := a.Def(a.Current)
	a.Time += dt * a.Speed
	if !def.Loop && a.Time > def.Duration {
		a.Time = def.Duration
	}
}

var AnimationComponent = NewComponent[Animation]()
