// Package roundsm implements the round/tick state machine of spec.md
// section 4.7-4.8: the barrier-synchronized Clock, the well-behaved and
// Byzantine Process logic, and the two driver modes (a single-threaded
// cooperative Simulation, and a Barrier-gated parallel mode) described in
// spec.md section 5.
package roundsm

// Phase names the half-tick a Clock or Process is in. Every tick has a
// start phase, where a process whose VDF period begins consults its view
// and forms its next message, and an end phase, where a process whose
// period ends broadcasts that message (if any).
type Phase int

const (
	PhaseStart Phase = iota
	PhaseEnd
)

// String renders a Phase for logs and test failure output.
func (p Phase) String() string {
	if p == PhaseStart {
		return "start"
	}
	return "end"
}

// Clock is the shared global tick counter spec.md section 4.7 describes:
// it advances one phase at a time, incrementing the tick only on the
// end-to-start transition. It does not itself enforce the barrier
// condition (every process having reached the current phase); that is the
// driver's job (Simulation or RunParallel).
type Clock struct {
	tick  uint64
	phase Phase
}

// NewClock returns a Clock at tick 0, start phase.
func NewClock() *Clock {
	return &Clock{phase: PhaseStart}
}

// Tick returns the current tick number.
func (c *Clock) Tick() uint64 {
	return c.tick
}

// Phase returns the current phase.
func (c *Clock) Phase() Phase {
	return c.phase
}

// advance moves the clock to its next phase, incrementing tick on the
// end-to-start wraparound.
func (c *Clock) advance() {
	if c.phase == PhaseStart {
		c.phase = PhaseEnd
		return
	}
	c.phase = PhaseStart
	c.tick++
}
