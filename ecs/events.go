package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventStateChanged = "state_changed"
	EventLanded       = "landed"
	EventBallThrown   = "ball_thrown"
	EventBallHit      = "ball_hit"
)

// StateChangedEvent reports a locomotion state switch observed on an agent.
type StateChangedEvent struct {
	Entity Entity
	From   string
	To     string
}

// EntityEvent carries the entity an event is about.
type EntityEvent struct {
	Entity Entity
}

// BallHitEvent reports a ball striking an agent.
type BallHitEvent struct {
	Ball  Entity
	Agent Entity
}

// BallThrownEvent reports a ball leaving the thrower's hand.
type BallThrownEvent struct {
	Ball    Entity
	Thrower Entity
}

// EventQueue is a simple FIFO queue drained by whoever cares each frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
