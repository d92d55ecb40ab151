package component

import "github.com/milk9111/ballblitz/steering"

type Steering struct {
	Engine *steering.Engine
	Last   steering.Output
}

var SteeringComponent = NewComponent[Steering]()
