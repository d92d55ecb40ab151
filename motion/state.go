package motion

// State is one of the fixed set of discrete locomotion animation states.
type State int8

const (
	StateNone State = iota - 1
	Idle
	Sprint
	SprintTurnLeft
	SprintTurnRight
	JogForward
	JogForwardLeft
	JogForwardRight
	JogBackward
	JogBackwardLeft
	JogBackwardRight
	StrafeLeft
	StrafeRight
	Jump

	StateCount = int(Jump) + 1
)

var stateNames = [StateCount]string{
	Idle:             "Idle",
	Sprint:           "Sprint",
	SprintTurnLeft:   "SprintTurnLeft",
	SprintTurnRight:  "SprintTurnRight",
	JogForward:       "JogForward",
	JogForwardLeft:   "JogForwardLeft",
	JogForwardRight:  "JogForwardRight",
	JogBackward:      "JogBackward",
	JogBackwardLeft:  "JogBackwardLeft",
	JogBackwardRight: "JogBackwardRight",
	StrafeLeft:       "StrafeLeft",
	StrafeRight:      "StrafeRight",
	Jump:             "Jump",
}

func (s State) Valid() bool {
	return s >= Idle && int(s) < StateCount
}

func (s State) String() string {
	if !s.Valid() {
		return "None"
	}
	return stateNames[s]
}

// SinglePlay reports whether the state plays once and holds its last pose.
func (s State) SinglePlay() bool {
	return s == Jump
}

// Moving reports whether the state belongs to a locomotion family.
func (s State) Moving() bool {
	return s.Valid() && s != Idle && s != Jump
}

// ParseState resolves a state from its String form.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateNone, false
}

// ClipTable maps every logical state to the clip identifier used by the
// animation backend. It is resolved once when an agent is configured.
type ClipTable [StateCount]string

// DefaultClips returns the clip names of the stock humanoid rig.
func DefaultClips() ClipTable {
	return ClipTable{
		Idle:             "Idle",
		Sprint:           "Sprint",
		SprintTurnLeft:   "Running Left Turn",
		SprintTurnRight:  "Running Right Turn",
		JogForward:       "Jog Forward",
		JogForwardLeft:   "Jog Forward Diagonal Left",
		JogForwardRight:  "Jog Forward Diagonal",
		JogBackward:      "Jog Backward",
		JogBackwardLeft:  "Jog Backward Diagonal Left",
		JogBackwardRight: "Jog Backward Diagonal",
		StrafeLeft:       "Strafe Left",
		StrafeRight:      "Strafe",
		Jump:             "Jump",
	}
}

// Clip returns the clip for s, or "" when s is not a state.
func (t ClipTable) Clip(s State) string {
	if !s.Valid() {
		return ""
	}
	return t[s]
}

// Lookup finds the state that plays clip.
func (t ClipTable) Lookup(clip string) (State, bool) {
	if clip == "" {
		return StateNone, false
	}
	for i, c := range t {
		if c == clip {
			return State(i), true
		}
	}
	return StateNone, false
}
