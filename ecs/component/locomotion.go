package component

import "github.com/milk9111/ballblitz/motion"

// Locomotion owns an agent's state machine.
type Locomotion struct {
	Machine *motion.Machine
	// External marks a machine ticked by its own driver. The locomotion
	// system only ticks it after the driver goes silent.
	External bool

	// Last is the state reported by the last state-changed event.
	Last motion.State
}

var LocomotionComponent = NewComponent[Locomotion]()
