package motion

// JumpPhase tracks where an agent is in the jump arc. Ascending and
// descending are read from MotionPhase; the phase only records what the
// jump clip and the landing have done.
type JumpPhase uint8

const (
	// JumpNone: grounded, state derived from intent.
	JumpNone JumpPhase = iota
	// JumpAirborne: off the ground, jump clip playing (or falling).
	JumpAirborne
	// JumpAirborneHeld: still airborne, jump clip finished and frozen.
	JumpAirborneHeld
	// JumpLandedPending: landed while the clip played; idle is pending.
	JumpLandedPending
)

func (p JumpPhase) String() string {
	switch p {
	case JumpNone:
		return "none"
	case JumpAirborne:
		return "airborne"
	case JumpAirborneHeld:
		return "airborne_held"
	case JumpLandedPending:
		return "landed_pending"
	}
	return "unknown"
}

// MotionPhase is the coarse physical phase of an agent.
type MotionPhase uint8

const (
	GroundedIdle MotionPhase = iota
	GroundedMoving
	AirborneAscending
	AirborneDescending
)

func (p MotionPhase) String() string {
	switch p {
	case GroundedIdle:
		return "grounded_idle"
	case GroundedMoving:
		return "grounded_moving"
	case AirborneAscending:
		return "airborne_ascending"
	case AirborneDescending:
		return "airborne_descending"
	}
	return "unknown"
}

// PhaseOf classifies grounded flag, vertical velocity and intent.
func PhaseOf(grounded bool, verticalVelocity float64, in Intent, cfg DeriveConfig) MotionPhase {
	if !grounded {
		if verticalVelocity > 0 {
			return AirborneAscending
		}
		return AirborneDescending
	}
	if in.Direction.LenSqr() > cfg.MovingSq {
		return GroundedMoving
	}
	return GroundedIdle
}
