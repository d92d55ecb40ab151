package motion

import "math"

// DeriveConfig holds the thresholds used to classify an intent.
type DeriveConfig struct {
	// MovingSq is the squared intent magnitude above which the agent moves.
	MovingSq       float64 `yaml:"moving_sq"`
	SprintForward  float64 `yaml:"sprint_forward"`
	SprintDiagonal float64 `yaml:"sprint_diagonal"`
	JogForward     float64 `yaml:"jog_forward"`
	JogDiagonal    float64 `yaml:"jog_diagonal"`
	Strafe         float64 `yaml:"strafe"`
}

func DefaultDeriveConfig() DeriveConfig {
	return DeriveConfig{
		MovingSq:       0.001,
		SprintForward:  0.1,
		SprintDiagonal: 0.35,
		JogForward:     0.1,
		JogDiagonal:    0.35,
		Strafe:         0.01,
	}
}

// Derive maps an intent onto exactly one non-jump state.
func Derive(in Intent, cfg DeriveConfig) State {
	h, v := in.Lateral(), in.Forward()
	if in.Direction.LenSqr() <= cfg.MovingSq || math.IsNaN(h) || math.IsNaN(v) {
		return Idle
	}

	if in.WantSprint && v > cfg.SprintForward {
		if math.Abs(h) > cfg.SprintDiagonal {
			return pick(h, SprintTurnLeft, SprintTurnRight)
		}
		return Sprint
	}

	switch {
	case v > cfg.JogForward:
		if math.Abs(h) > cfg.JogDiagonal {
			return pick(h, JogForwardLeft, JogForwardRight)
		}
		return JogForward
	case v < -cfg.JogForward:
		if math.Abs(h) > cfg.JogDiagonal {
			return pick(h, JogBackwardLeft, JogBackwardRight)
		}
		return JogBackward
	case math.Abs(h) > cfg.Strafe:
		return pick(h, StrafeLeft, StrafeRight)
	}
	return Idle
}

func pick(h float64, left, right State) State {
	if h > 0 {
		return right
	}
	return left
}
