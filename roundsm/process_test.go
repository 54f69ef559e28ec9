package roundsm

import (
	"testing"

	"github.com/nano-o/vdf-consensus/adversary"
	"github.com/nano-o/vdf-consensus/chainerrors"
	"github.com/nano-o/vdf-consensus/config"
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
	"github.com/nano-o/vdf-consensus/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestProcessWellBehavedFormsRound0MessageWithEmptyCoffer(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	p := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), newTestMetrics(t))

	require.NoError(p.TickStart(0))
	msg, err := p.TickEnd(0)
	require.NoError(err)
	require.NotNil(msg)
	require.Equal(uint64(0), msg.Round)
	require.Equal(0, msg.Coffer.Len())
}

func TestProcessWellBehavedAdvancesRoundAtPeriodBoundary(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1", "p2"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	met := newTestMetrics(t)
	p1 := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), met)
	p2 := NewProcess("p2", false, cfg, view, adversary.Default{}, zerolog.Nop(), met)

	require.NoError(p1.TickStart(0))
	require.NoError(p2.TickStart(0))
	m1, err := p1.TickEnd(0)
	require.NoError(err)
	m2, err := p2.TickEnd(0)
	require.NoError(err)
	require.NoError(view.Add(*m1))
	require.NoError(view.Add(*m2))

	require.NoError(p1.TickStart(1))
	round1, err := p1.TickEnd(1)
	require.NoError(err)
	require.NotNil(round1)
	require.Equal(uint64(1), round1.Round)
	require.True(round1.Coffer.Contains(m1.ID))
	require.True(round1.Coffer.Contains(m2.ID))
}

func TestProcessWellBehavedSkipsOffPeriodTicks(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1"),
		TWB:       3,
		TAdv:      1,
	}
	view := message.NewDAG()
	p := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), newTestMetrics(t))

	require.NoError(p.TickStart(0))
	msg, err := p.TickEnd(0)
	require.NoError(err)
	require.Nil(msg) // period is 3; tick 0 is not the end-of-period tick (tick 2 is)

	require.NoError(p.TickStart(1))
	msg, err = p.TickEnd(1)
	require.NoError(err)
	require.Nil(msg)
}

func TestProcessWellBehavedReportsViewIncomplete(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	met := newTestMetrics(t)
	p := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), met)

	dangling := message.Message{
		ID:     message.MessageId{Process: "ghost", Counter: 0},
		Round:  1,
		Coffer: idset.Of(message.MessageId{Process: "nowhere", Counter: 0}),
	}
	// Add only enforces the round-0-empty-coffer invariant; a round-1
	// message naming a predecessor the DAG never received is accepted,
	// leaving the DAG incomplete (invariant 2) on purpose for this test.
	require.NoError(view.Add(dangling))

	require.ErrorIs(p.TickStart(0), chainerrors.ErrViewIncomplete)
}

func TestProcessByzantineUsesOracleAndSkipsSafetyCheck(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1"),
		Byzantine: idset.Of[message.ProcessID]("p1"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	p := NewProcess("p1", true, cfg, view, adversary.Default{}, zerolog.Nop(), newTestMetrics(t))

	require.NoError(p.TickStart(0))
	msg, err := p.TickEnd(0)
	require.NoError(err)
	require.NotNil(msg)
	// Default oracle always proposes one past the highest round seen; an
	// empty view reports a highest round of 0, so that is round 1, with an empty coffer
	// since nothing is visible at round 0 either. A Byzantine message with
	// a non-empty round and an empty coffer would fail Safe, but Safe is
	// never consulted for a Byzantine process.
	require.Equal(uint64(1), msg.Round)
	require.Equal(0, msg.Coffer.Len())
}

func TestProcessTickEndDetectsSafetyViolation(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1", "p2"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	m1 := message.Message{ID: message.MessageId{Process: "p1", Counter: 0}, Round: 0}
	m2 := message.Message{ID: message.MessageId{Process: "p2", Counter: 0}, Round: 0}
	require.NoError(view.Add(m1))
	require.NoError(view.Add(m2))

	p := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), newTestMetrics(t))
	// Force an unsafe pending message: round 1 naming only one of the two
	// well-behaved round-0 predecessors, bypassing formWellBehaved's own
	// (necessarily safe) construction to exercise TickEnd's check directly.
	p.pending = &message.Message{
		ID:     message.MessageId{Process: "p1", Counter: 1},
		Round:  1,
		Coffer: idset.Of(m1.ID),
	}

	msg, err := p.TickEnd(0)
	require.ErrorIs(err, chainerrors.ErrSafetyViolation)
	require.NotNil(msg) // still returned so the caller can inspect the violation
}

func TestProcessIsSafe(t *testing.T) {
	require := require.New(t)
	cfg := config.Parameters{
		Processes: idset.Of[message.ProcessID]("p1"),
		TWB:       1,
		TAdv:      1,
	}
	view := message.NewDAG()
	p := NewProcess("p1", false, cfg, view, adversary.Default{}, zerolog.Nop(), newTestMetrics(t))

	require.True(p.IsSafe()) // no pending message is trivially safe

	require.NoError(p.TickStart(0))
	require.True(p.IsSafe())
}
