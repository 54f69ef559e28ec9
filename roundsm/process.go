package roundsm

import (
	"github.com/nano-o/vdf-consensus/adversary"
	"github.com/nano-o/vdf-consensus/chainalg/accept"
	"github.com/nano-o/vdf-consensus/chainalg/weight"
	"github.com/nano-o/vdf-consensus/chainerrors"
	"github.com/nano-o/vdf-consensus/config"
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
	"github.com/nano-o/vdf-consensus/metrics"
	"github.com/rs/zerolog"
)

// Process is one participant in the round/tick state machine: a
// well-behaved process running spec.md section 4.4's construction, or a
// Byzantine process delegating its existential choice to an Oracle
// (spec.md section 4.7/4.8, section 9 "Adversary existential choice").
//
// A Process owns no transport of its own: it reads whatever view its DAG
// currently holds, and relies on its driver (Simulation or RunParallel) to
// keep that view populated according to the tick-ordering guarantee of
// spec.md section 5.
type Process struct {
	ID        message.ProcessID
	Byzantine bool

	period uint64 // ticks per VDF period for this process (tWB or tAdv)
	twb    uint64 // the well-behaved period, needed to compute currentRound
	wb     idset.Set[message.ProcessID]

	counter uint64
	view    *message.DAG
	pending *message.Message
	phase   Phase

	oracle adversary.Oracle
	log    zerolog.Logger
	m      *metrics.Metrics
}

// NewProcess constructs a Process. view is the DAG this process consults
// and accumulates into; callers that want a fully idealized run (every
// process sees every message the instant it is broadcast) pass the same
// *message.DAG to every process, as Simulation does. Callers that want to
// model a partitioned or lagging process pass it a separate DAG and
// deliver into it explicitly via SubmitReceived.
func NewProcess(id message.ProcessID, byzantine bool, cfg config.Parameters, view *message.DAG, oracle adversary.Oracle, log zerolog.Logger, met *metrics.Metrics) *Process {
	period := cfg.TWB
	if byzantine {
		period = cfg.TAdv
	}
	return &Process{
		ID:        id,
		Byzantine: byzantine,
		period:    period,
		twb:       cfg.TWB,
		wb:        cfg.WellBehaved(),
		view:      view,
		phase:     PhaseEnd,
		oracle:    oracle,
		log:       log,
		m:         met,
	}
}

// SubmitReceived records an inbound message in this process's view
// (spec.md section 6, submit_received). Delivering a message this process
// already has is a no-op, not a duplicate-id error: the same message
// arriving twice is expected under at-least-once delivery, only a
// genuinely conflicting id is malformed.
func (p *Process) SubmitReceived(msg message.Message) error {
	if existing, ok := p.view.Get(msg.ID); ok && existing.Round == msg.Round && existing.Coffer.Equals(msg.Coffer) {
		return nil
	}
	if err := p.view.Add(msg); err != nil {
		if p.m != nil {
			p.m.MalformedTotal.Inc()
		}
		return err
	}
	return nil
}

// Contains reports whether id is present in this process's view, for
// callers driving delivery by hand.
func (p *Process) Contains(id message.MessageId) bool {
	_, ok := p.view.Get(id)
	return ok
}

// TickStart runs the section 4.4/4.7 start-phase logic for tick. Outside
// this process's VDF period boundary (tick not a multiple of its period)
// it does nothing but record that it has reached the start phase.
//
// A well-behaved process that does not yet have a complete view
// (dangling coffer references) skips emission for this period entirely
// and surfaces ErrViewIncomplete, per spec.md section 7; this is
// recoverable; there is no pending message to broadcast at the matching
// TickEnd.
func (p *Process) TickStart(tick uint64) error {
	p.phase = PhaseStart
	if tick%p.period != 0 {
		return nil
	}

	view := p.view.All()

	if p.Byzantine {
		p.formByzantine(view)
		return nil
	}
	return p.formWellBehaved(tick, view)
}

func (p *Process) formByzantine(view message.Set) {
	maxSeen, _ := view.MaxRound()
	round := p.oracle.ChooseRound(view, maxSeen)

	var coffer idset.Set[message.MessageId]
	if round == 0 {
		coffer = make(idset.Set[message.MessageId])
	} else {
		predecessors := view.Round(round - 1)
		coffer = p.oracle.ChooseCoffer(view, round, predecessors)
	}
	p.setPending(round, coffer)
}

func (p *Process) formWellBehaved(tick uint64, view message.Set) error {
	if !view.IsComplete() {
		if p.m != nil {
			p.m.ViewIncompleteTotal.Inc()
		}
		return chainerrors.ErrViewIncomplete
	}

	currentRound := tick / p.twb
	visible := view.AtMostRound(currentRound)

	var coffer idset.Set[message.MessageId]
	if currentRound == 0 {
		coffer = make(idset.Set[message.MessageId])
	} else {
		coffer = wellBehavedAt(visible, currentRound-1, p.wb).IDs()
	}
	p.setPending(currentRound, coffer)
	return nil
}

func (p *Process) setPending(round uint64, coffer idset.Set[message.MessageId]) {
	id := message.MessageId{Process: p.ID, Counter: p.counter}
	p.counter++
	msg := message.Message{ID: id, Round: round, Coffer: coffer}
	p.pending = &msg
}

// TickEnd runs the section 4.4/4.7 end-phase logic: it releases whatever
// message TickStart formed for this period, or nil if this tick is not
// this process's period boundary, or if TickStart skipped emission.
//
// A well-behaved process's pending message is checked against Safe before
// release; a violation is ErrSafetyViolation, fatal per spec.md section 7,
// and the driver must halt rather than broadcast it. A Byzantine process
// is, by definition, not held to Safe.
func (p *Process) TickEnd(tick uint64) (*message.Message, error) {
	p.phase = PhaseEnd
	if tick%p.period != p.period-1 {
		return nil, nil
	}

	msg := p.pending
	p.pending = nil
	if msg == nil {
		return nil, nil
	}

	if !p.Byzantine && !Safe(*msg, p.view.All(), p.wb) {
		return msg, chainerrors.ErrSafetyViolation
	}
	return msg, nil
}

// AcceptedView returns Accepted applied to this process's current view
// (spec.md section 6, accepted_view).
func (p *Process) AcceptedView() message.Set {
	return accept.Accepted(p.view.All())
}

// HeaviestChain returns the heaviest consistent chain in this process's
// current view (spec.md section 6, heaviest_chain). Ties are broken
// deterministically; see chainalg/weight.
func (p *Process) HeaviestChain() message.Set {
	chain, _ := weight.HeaviestConsistentChain(p.view.All())
	return chain
}

// IsSafe reports whether this process's currently pending message (if
// any) satisfies the section 4.8 safety obligation. A Byzantine process
// or a process with no pending message is trivially safe.
func (p *Process) IsSafe() bool {
	if p.Byzantine || p.pending == nil {
		return true
	}
	return Safe(*p.pending, p.view.All(), p.wb)
}
