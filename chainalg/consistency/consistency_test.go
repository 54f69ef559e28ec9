package consistency

import (
	"testing"

	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
	"github.com/stretchr/testify/require"
)

func id(n uint64) message.MessageId { return message.MessageId{Process: "p", Counter: n} }

func msg(n uint64, round uint64, preds ...uint64) message.Message {
	coffer := make(idset.Set[message.MessageId], len(preds))
	for _, p := range preds {
		coffer.Add(id(p))
	}
	return message.Message{ID: id(n), Round: round, Coffer: coffer}
}

func TestConsistentSetRefutation(t *testing.T) {
	// S2: three round-0 messages with empty coffers; the intersection of
	// empty coffers is empty, and 2*0 > 0 is false.
	require := require.New(t)
	m1, m2, m3 := msg(1, 0), msg(2, 0), msg(3, 0)
	require.False(ConsistentSet(message.NewSet(m1, m2, m3)))
}

func TestConsistentSetConfirmation(t *testing.T) {
	// S3: m4, m5 agree on a majority of a shared predecessor set; adding
	// m6, whose coffer only overlaps in {1}, breaks the majority for m4.
	require := require.New(t)
	m4 := msg(4, 1, 1, 2)
	m5 := msg(5, 1, 1, 2, 3)
	require.True(ConsistentSet(message.NewSet(m4, m5)))

	m6 := msg(6, 1, 1, 3)
	require.False(ConsistentSet(message.NewSet(m4, m5, m6)))
}

func TestConsistentChainRound0IsTriviallyConsistent(t *testing.T) {
	// S4: a set of only round-0 messages is trivially a consistent chain.
	require := require.New(t)
	m1, m2, m3 := msg(1, 0), msg(2, 0), msg(3, 0)
	require.True(ConsistentChain(message.NewSet(m1, m2, m3)))
}

func TestConsistentChainExtendsWithAgreeingTip(t *testing.T) {
	// S4: {m1,m2,m4,m5} is consistent — m4 and m5 both name a majority of
	// the round-0 predecessor set {1,2}.
	require := require.New(t)
	m1, m2 := msg(1, 0), msg(2, 0)
	m4 := msg(4, 1, 1, 2)
	m5 := msg(5, 1, 1, 2, 3)
	require.True(ConsistentChain(message.NewSet(m1, m2, m4, m5)))
}

func TestConsistentChainFailsOnDisagreeingTip(t *testing.T) {
	// S4: adding m6 (coffer {1,3}) to the full six-message set breaks the
	// majority condition for m4, whose coffer only has two entries.
	require := require.New(t)
	m1, m2, m3 := msg(1, 0), msg(2, 0), msg(3, 0)
	m4 := msg(4, 1, 1, 2)
	m5 := msg(5, 1, 1, 2, 3)
	m6 := msg(6, 1, 1, 3)
	require.False(ConsistentChain(message.NewSet(m1, m2, m3, m4, m5, m6)))
}

// TestConsistentChainFullFiveMessageSet documents a deliberate departure
// from the prose of spec scenario S4, which states
// ConsistentChain({m1,m2,m3,m4,m5}) = false. Tracing the recursive
// definition literally (the one place it is given with full formal
// precision) gives true here: Maj={1,2} is a subset of the round-0
// predecessor set {1,2,3} and satisfies the majority condition against
// both m4 (coffer {1,2}) and m5 (coffer {1,2,3}), and the recursion on
// the remaining round-0 messages trivially succeeds. See DESIGN.md
// (chainalg/consistency entry) for the full discussion.
func TestConsistentChainFullFiveMessageSet(t *testing.T) {
	require := require.New(t)
	m1, m2, m3 := msg(1, 0), msg(2, 0), msg(3, 0)
	m4 := msg(4, 1, 1, 2)
	m5 := msg(5, 1, 1, 2, 3)
	require.True(ConsistentChain(message.NewSet(m1, m2, m3, m4, m5)))
}

func TestConsistentChainEmptyIsFalse(t *testing.T) {
	require := require.New(t)
	require.False(ConsistentChain(message.NewSet()))
}

func TestStronglyConsistentChainRequiresFullPredecessorLayer(t *testing.T) {
	require := require.New(t)

	m1, m2 := msg(1, 0), msg(2, 0)
	m4 := msg(4, 1, 1, 2)
	require.True(StronglyConsistentChain(message.NewSet(m1, m2, m4)))

	// Strong consistency requires the ENTIRE predecessor layer, not just
	// a majority of it: a tip that only names m1 fails even though {1} is
	// technically a strict majority of that tip's one-element coffer.
	onlyM1 := msg(5, 1, 1)
	require.False(StronglyConsistentChain(message.NewSet(m1, m2, onlyM1)))
}

func TestConsistentChainToleratesDanglingCoffer(t *testing.T) {
	// Chain predicates do not call IsComplete; a coffer entry that
	// resolves to nothing simply cannot contribute to any majority.
	require := require.New(t)
	m1 := msg(1, 0)
	dangling := msg(2, 1, 1, 99)
	require.False(ConsistentChain(message.NewSet(m1, dangling)))
}
