package roundsm

import (
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
)

// wellBehavedAt returns the subset of view's round-r layer whose author is
// in wb. Both well-behaved message formation and the Safe obligation below
// need exactly this layer.
func wellBehavedAt(view message.Set, round uint64, wb idset.Set[message.ProcessID]) message.Set {
	layer := view.Round(round)
	out := make(message.Set, len(layer))
	for id, m := range layer {
		if wb.Contains(id.Process) {
			out[id] = m
		}
	}
	return out
}

// Safe evaluates the section 4.8 safety obligation a well-behaved process
// must satisfy for every message it forms: a round-0 message has an empty
// coffer, and a round-r>0 message's coffer must name every well-behaved
// message visible in view at round r-1, and those names must form a strict
// majority of the coffer. Naming every known well-behaved predecessor
// trivially satisfies the majority half whenever it holds at all, since a
// Byzantine minority cannot out-vote it; Safe checks the obligation
// directly rather than assuming a particular construction produced m.
func Safe(m message.Message, view message.Set, wb idset.Set[message.ProcessID]) bool {
	if m.Round == 0 {
		return m.Coffer.Len() == 0
	}
	wbIDs := wellBehavedAt(view, m.Round-1, wb).IDs()
	if !wbIDs.SubsetOf(m.Coffer) {
		return false
	}
	return idset.StrictMajorityCount(wbIDs.Len(), m.Coffer.Len())
}
