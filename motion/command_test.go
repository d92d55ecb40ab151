package motion

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCommandQueueDrainOrder(t *testing.T) {
	q := NewCommandQueue(0)
	q.SetMovement(mgl64.Vec2{1, 0}, false)
	q.Jump()
	q.Stop()
	q.PlayAnimation("Taking Item")

	got := q.Drain()
	want := []Op{OpSetMovement, OpJump, OpStop, OpPlayAnimation}
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(got))
	}
	for i, op := range want {
		if got[i].Op != op {
			t.Fatalf("command %d: expected %s, got %s", i, op, got[i].Op)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue to be empty after drain")
	}
	if q.Drain() != nil {
		t.Fatalf("expected nil drain on empty queue")
	}
}

func TestCommandQueueGrowsAcrossWrap(t *testing.T) {
	q := NewCommandQueue(0)
	for i := 0; i < 5; i++ {
		q.Enqueue(Command{Op: OpMove, Dir: MoveDir(i)})
	}
	q.Drain()
	for i := 0; i < 20; i++ {
		if !q.Enqueue(Command{Op: OpMove, Dir: MoveDir(i % 10)}) {
			t.Fatalf("unbounded queue rejected command %d", i)
		}
	}
	got := q.Drain()
	if len(got) != 20 {
		t.Fatalf("expected 20 commands, got %d", len(got))
	}
	for i, cmd := range got {
		if cmd.Dir != MoveDir(i%10) {
			t.Fatalf("command %d out of order: %v", i, cmd.Dir)
		}
	}
}

func TestCommandQueueBounded(t *testing.T) {
	q := NewCommandQueue(2)
	if !q.Jump() || !q.Stop() {
		t.Fatalf("expected first two commands to fit")
	}
	if q.Jump() {
		t.Fatalf("expected overflow on third command")
	}
	if q.Overflow() != 1 {
		t.Fatalf("expected overflow count 1, got %d", q.Overflow())
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Op != OpJump || got[1].Op != OpStop {
		t.Fatalf("unexpected drain %v", got)
	}
	if !q.Jump() {
		t.Fatalf("expected space after drain")
	}
}

func TestCommandQueueConcurrentProducers(t *testing.T) {
	const producers = 4
	const perProducer = 250

	q := NewCommandQueue(0)
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.SetMovement(mgl64.Vec2{float64(p), float64(i)}, false)
			}
		}(p)
	}

	var drained []Command
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		drained = append(drained, q.Drain()...)
	}
	drained = append(drained, q.Drain()...)

	if len(drained) != producers*perProducer {
		t.Fatalf("expected %d commands, got %d", producers*perProducer, len(drained))
	}
	next := make([]float64, producers)
	for _, cmd := range drained {
		p := int(cmd.Vector.X())
		if cmd.Vector.Y() != next[p] {
			t.Fatalf("producer %d: expected seq %v, got %v", p, next[p], cmd.Vector.Y())
		}
		next[p]++
	}
}

func TestQueueDrainIsAtomicWithTick(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.SetMovement(mgl64.Vec2{0.5, 0.5}, false)
	m.Jump()
	m.SetMovement(mgl64.Vec2{0, 1}, true)
	m.LogicTick(1)

	in := m.Intent()
	if in.Direction != (mgl64.Vec2{0, 1}) || !in.WantSprint {
		t.Fatalf("expected final intent from last SetMovement, got %+v", in)
	}
	if !m.JumpRequested() {
		t.Fatalf("expected jump requested")
	}
	if m.Desired() != Sprint {
		t.Fatalf("expected desired Sprint in the same tick, got %s", m.Desired())
	}
}

func TestApplyCommands(t *testing.T) {
	cases := []struct {
		name   string
		cmds   []Command
		want   Intent
		jump   bool
		before func(m *Machine)
	}{
		{
			name: "set_movement_clamps",
			cmds: []Command{SetMovementCommand(mgl64.Vec2{3, -2}, true)},
			want: Intent{Direction: mgl64.Vec2{1, -1}, WantSprint: true},
		},
		{
			name: "set_movement_drops_nan",
			cmds: []Command{SetMovementCommand(mgl64.Vec2{nan(), 1}, false)},
			want: Intent{},
		},
		{
			name: "move_preset",
			cmds: []Command{MoveCommand(MoveSprint, mgl64.Vec2{}, false)},
			want: Intent{Direction: mgl64.Vec2{0, 1}, WantSprint: true},
		},
		{
			name: "move_vector_overrides_preset",
			cmds: []Command{MoveCommand(MoveBackward, mgl64.Vec2{3, 4}, true)},
			want: Intent{Direction: mgl64.Vec2{0.6, 0.8}, WantSprint: true},
		},
		{
			name: "stop_clears",
			cmds: []Command{SetMovementCommand(mgl64.Vec2{1, 1}, true), StopCommand()},
			want: Intent{},
		},
		{
			name: "jump_sets_flag",
			cmds: []Command{JumpCommand()},
			jump: true,
		},
		{
			name:   "restricted_jump_ignored",
			cmds:   []Command{JumpCommand()},
			before: func(m *Machine) { m.Restrict() },
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _, _ := newTestMachine(t)
			if c.before != nil {
				c.before(m)
			}
			for _, cmd := range c.cmds {
				m.Queue().Enqueue(cmd)
			}
			m.LogicTick(1)
			got := m.Intent()
			if got.WantSprint != c.want.WantSprint || !got.Direction.ApproxFuncEqual(c.want.Direction, absEqual) {
				t.Fatalf("expected intent %+v, got %+v", c.want, got)
			}
			if m.JumpRequested() != c.jump {
				t.Fatalf("expected jump=%v, got %v", c.jump, m.JumpRequested())
			}
		})
	}
}
