package steering

import "github.com/go-gl/mathgl/mgl64"

// Court is the axis-aligned playing area on the XZ ground plane. Vec2.X is
// world X and Vec2.Y is world Z.
type Court struct {
	Min mgl64.Vec2 `yaml:"min"`
	Max mgl64.Vec2 `yaml:"max"`
}

func (c Court) Center() mgl64.Vec2 {
	return c.Min.Add(c.Max).Mul(0.5)
}

// Contains reports whether p lies inside the court.
func (c Court) Contains(p mgl64.Vec2) bool {
	return p.X() >= c.Min.X() && p.X() <= c.Max.X() && p.Y() >= c.Min.Y() && p.Y() <= c.Max.Y()
}

// Config tunes one steering engine.
type Config struct {
	Court Court `yaml:"court"`

	SafeDistance  float64 `yaml:"safe_distance"`
	PanicDistance float64 `yaml:"panic_distance"`
	ThrowerWeight float64 `yaml:"thrower_weight"`
	// ThreatMargin widens the safe distance for the under-threat test.
	ThreatMargin float64 `yaml:"threat_margin"`

	BallTag       string  `yaml:"ball_tag"`
	BallAwareness float64 `yaml:"ball_awareness"`
	BallDanger    float64 `yaml:"ball_danger"`
	BallWeight    float64 `yaml:"ball_weight"`
	ApproachDot   float64 `yaml:"approach_dot"`
	DangerFactor  float64 `yaml:"danger_factor"`
	AwareFactor   float64 `yaml:"aware_factor"`
	ThreatRefresh float64 `yaml:"threat_refresh"`

	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`

	WallBuffer          float64 `yaml:"wall_buffer"`
	WallWeight          float64 `yaml:"wall_weight"`
	CornerPanicDistance float64 `yaml:"corner_panic_distance"`
	CornerInset         float64 `yaml:"corner_inset"`
	CornerWeight        float64 `yaml:"corner_weight"`

	MaxSteer      float64 `yaml:"max_steer"`
	Jitter        float64 `yaml:"jitter"`
	Smoothing     float64 `yaml:"smoothing"`
	IdleThreshold float64 `yaml:"idle_threshold"`
	// MoveThreshold is the squared smoothed magnitude needed to move.
	MoveThreshold float64 `yaml:"move_threshold"`

	SprintChance   float64 `yaml:"sprint_chance"`
	SprintCooldown float64 `yaml:"sprint_cooldown"`
	SprintBurst    float64 `yaml:"sprint_burst"`

	FaceThrower bool    `yaml:"face_thrower"`
	LookAtSpeed float64 `yaml:"look_at_speed"`
}

func DefaultConfig() Config {
	return Config{
		Court:               Court{Min: mgl64.Vec2{-10, -6}, Max: mgl64.Vec2{10, 6}},
		SafeDistance:        7,
		PanicDistance:       4,
		ThrowerWeight:       1,
		ThreatMargin:        0.5,
		BallTag:             "Ball",
		BallAwareness:       10,
		BallDanger:          6,
		BallWeight:          2,
		ApproachDot:         0.5,
		DangerFactor:        1.5,
		AwareFactor:         0.7,
		ThreatRefresh:       0.25,
		SeparationRadius:    2,
		SeparationWeight:    0.8,
		WallBuffer:          1.5,
		WallWeight:          0.9,
		CornerPanicDistance: 6,
		CornerInset:         1,
		CornerWeight:        0.7,
		MaxSteer:            2.5,
		Jitter:              0.15,
		Smoothing:           0.25,
		IdleThreshold:       0.18,
		MoveThreshold:       0.02,
		SprintChance:        0.7,
		SprintCooldown:      2,
		SprintBurst:         0.7,
		FaceThrower:         true,
		LookAtSpeed:         8,
	}
}
