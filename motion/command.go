package motion

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Op identifies what a Command does to the machine.
type Op uint8

const (
	OpMove Op = iota
	OpSetMovement
	OpJump
	OpStop
	OpPlayAnimation
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpSetMovement:
		return "set_movement"
	case OpJump:
		return "jump"
	case OpStop:
		return "stop"
	case OpPlayAnimation:
		return "play_animation"
	}
	return "unknown"
}

// Command is an intent mutation staged for the next logic tick.
type Command struct {
	Op     Op
	Dir    MoveDir
	Vector mgl64.Vec2
	Sprint bool
	Clip   string
}

// MoveCommand selects a preset. A non-zero vector replaces the preset with
// its normalized direction and the given sprint flag.
func MoveCommand(dir MoveDir, vector mgl64.Vec2, sprint bool) Command {
	return Command{Op: OpMove, Dir: dir, Vector: vector, Sprint: sprint}
}

func SetMovementCommand(vector mgl64.Vec2, sprint bool) Command {
	return Command{Op: OpSetMovement, Vector: vector, Sprint: sprint}
}

func JumpCommand() Command { return Command{Op: OpJump} }

func StopCommand() Command { return Command{Op: OpStop} }

func PlayAnimationCommand(clip string) Command {
	return Command{Op: OpPlayAnimation, Clip: clip}
}

// CommandQueue stages commands for one machine. It is safe for concurrent
// producers and a single consumer. With a positive capacity it is a fixed
// ring and Enqueue reports overflow; otherwise it grows as needed.
type CommandQueue struct {
	mu       sync.Mutex
	data     []Command
	head     int
	count    int
	bounded  bool
	overflow uint64
}

// NewCommandQueue constructs a queue. capacity <= 0 means unbounded.
func NewCommandQueue(capacity int) *CommandQueue {
	q := &CommandQueue{}
	if capacity > 0 {
		q.data = make([]Command, capacity)
		q.bounded = true
	}
	return q
}

// Enqueue stages a command, returning false if a bounded queue is full.
func (q *CommandQueue) Enqueue(cmd Command) bool {
	if q == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == len(q.data) {
		if q.bounded {
			q.overflow++
			return false
		}
		q.growLocked()
	}
	q.data[(q.head+q.count)%len(q.data)] = cmd
	q.count++
	return true
}

// Drain returns all staged commands in FIFO order and clears the queue.
func (q *CommandQueue) Drain() []Command {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil
	}
	out := make([]Command, q.count)
	for i := range out {
		out[i] = q.data[(q.head+i)%len(q.data)]
	}
	q.head = 0
	q.count = 0
	return out
}

// Len reports the number of staged commands.
func (q *CommandQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Overflow reports how many commands a bounded queue has rejected.
func (q *CommandQueue) Overflow() uint64 {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.overflow
}

// Clear drops staged commands without applying them.
func (q *CommandQueue) Clear() {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.head = 0
	q.count = 0
	q.mu.Unlock()
}

func (q *CommandQueue) growLocked() {
	size := len(q.data) * 2
	if size < 8 {
		size = 8
	}
	grown := make([]Command, size)
	for i := 0; i < q.count; i++ {
		grown[i] = q.data[(q.head+i)%len(q.data)]
	}
	q.data = grown
	q.head = 0
}

func (q *CommandQueue) Move(dir MoveDir, vector mgl64.Vec2, sprint bool) bool {
	return q.Enqueue(MoveCommand(dir, vector, sprint))
}

func (q *CommandQueue) SetMovement(vector mgl64.Vec2, sprint bool) bool {
	return q.Enqueue(SetMovementCommand(vector, sprint))
}

func (q *CommandQueue) Jump() bool { return q.Enqueue(JumpCommand()) }

func (q *CommandQueue) Stop() bool { return q.Enqueue(StopCommand()) }

func (q *CommandQueue) PlayAnimation(clip string) bool {
	return q.Enqueue(PlayAnimationCommand(clip))
}
