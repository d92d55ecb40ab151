package motion

// Config tunes one locomotion machine.
type Config struct {
	WalkSpeed        float64 `yaml:"walk_speed"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	JumpImpulse      float64 `yaml:"jump_impulse"`
	Gravity          float64 `yaml:"gravity"`
	// GroundStick replaces residual downward velocity while grounded.
	GroundStick float64 `yaml:"ground_stick"`

	MinSwitchInterval float64 `yaml:"min_switch_interval"`
	TransitionGrace   float64 `yaml:"transition_grace"`
	CrossFade         float64 `yaml:"cross_fade"`
	LoopFade          float64 `yaml:"loop_fade"`

	// ExternalTimeout is how long an externally driven machine may go
	// without ticks before the host drives it itself. Zero disables it.
	ExternalTimeout float64 `yaml:"external_timeout"`

	Derive DeriveConfig `yaml:"derive"`
	Clips  ClipTable    `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		WalkSpeed:         3.5,
		SprintMultiplier:  1.8,
		JumpImpulse:       5,
		Gravity:           -20,
		GroundStick:       -2,
		MinSwitchInterval: 0.08,
		TransitionGrace:   0.06,
		CrossFade:         0.12,
		LoopFade:          0.05,
		ExternalTimeout:   0.25,
		Derive:            DefaultDeriveConfig(),
		Clips:             DefaultClips(),
	}
}
