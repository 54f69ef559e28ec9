package roundsm

import (
	"fmt"
	"sort"

	"github.com/nano-o/vdf-consensus/adversary"
	"github.com/nano-o/vdf-consensus/config"
	"github.com/nano-o/vdf-consensus/message"
	"github.com/nano-o/vdf-consensus/metrics"
	"github.com/rs/zerolog"
)

// Simulation is the single-threaded cooperative driver spec.md section 5
// names as the default execution mode: one goroutine steps every
// process's start phase, then every process's end phase, once per tick.
// Every well-behaved and Byzantine process shares a single DAG, so a
// message broadcast in tick t's end phase is present in every process's
// view the moment tick t+1's start phase runs, matching the section 5
// ordering guarantee without any separate delivery step.
type Simulation struct {
	clock     *Clock
	processes []*Process
	byID      map[message.ProcessID]*Process
	dag       *message.DAG
	cfg       config.Parameters
	log       zerolog.Logger
	m         *metrics.Metrics
}

// NewSimulation constructs a Simulation from cfg: one Process per entry in
// cfg.Processes, Byzantine membership per cfg.Byzantine, all sharing one
// fresh DAG. Processes are ordered deterministically by id so iteration
// order (and therefore log output) is stable across runs.
func NewSimulation(cfg config.Parameters, oracle adversary.Oracle, log zerolog.Logger, met *metrics.Metrics) *Simulation {
	dag := message.NewDAG()
	ids := cfg.Processes.List()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	s := &Simulation{
		clock: NewClock(),
		dag:   dag,
		cfg:   cfg,
		log:   log,
		m:     met,
		byID:  make(map[message.ProcessID]*Process, len(ids)),
	}
	for _, id := range ids {
		byz := cfg.Byzantine.Contains(id)
		plog := loggerFor(log, id)
		p := NewProcess(id, byz, cfg, dag, oracle, plog, met)
		s.processes = append(s.processes, p)
		s.byID[id] = p
	}
	return s
}

// loggerFor tags a child logger with the process id, without importing
// the logging package (which would make roundsm depend on console
// formatting choices it has no business knowing about).
func loggerFor(root zerolog.Logger, id message.ProcessID) zerolog.Logger {
	return root.With().Str("process", string(id)).Logger()
}

// Clock returns the simulation's clock.
func (s *Simulation) Clock() *Clock {
	return s.clock
}

// DAG returns the shared DAG every process reads from and broadcasts
// into.
func (s *Simulation) DAG() *message.DAG {
	return s.dag
}

// Process returns the process with the given id, if any.
func (s *Simulation) Process(id message.ProcessID) (*Process, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Step runs exactly one tick: every process's start phase, then every
// process's end phase, broadcasting each result into the shared DAG as it
// is produced. It returns a non-nil error, wrapping ErrSafetyViolation,
// the instant any well-behaved process's pending message fails Safe; per
// spec.md section 7 this is fatal and the caller must stop driving the
// simulation.
func (s *Simulation) Step() error {
	tick := s.clock.Tick()

	for _, p := range s.processes {
		if err := p.TickStart(tick); err != nil {
			s.log.Debug().Err(err).Str("process", string(p.ID)).Uint64("tick", tick).Msg("start phase")
		}
	}
	s.clock.advance()

	for _, p := range s.processes {
		msg, err := p.TickEnd(tick)
		if err != nil {
			s.log.Error().Err(err).Str("process", string(p.ID)).Uint64("tick", tick).Msg("safety violation")
			return fmt.Errorf("process %s at tick %d: %w", p.ID, tick, err)
		}
		if msg == nil {
			continue
		}
		if err := s.dag.Add(*msg); err != nil {
			s.log.Warn().Err(err).Str("process", string(p.ID)).Msg("dropped malformed broadcast")
		}
	}
	s.clock.advance()

	if s.m != nil {
		s.m.DAGSize.Set(float64(s.dag.Len()))
	}
	return nil
}

// Run steps the simulation until the clock reaches maxTick, stopping
// early (and returning the wrapped error) on the first safety violation.
func (s *Simulation) Run(maxTick uint64) error {
	for s.clock.Tick() < maxTick {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}
