// Package enum implements the chain-enumeration operators of spec.md
// section 4.4: ConsistentChains and StronglyConsistentChains, the sets of
// every subset of a DAG that is a (strongly) consistent chain anchored at
// the DAG's max round.
//
// Per spec.md section 9 ("do not translate the recursion literally"), this
// folds bottom-up from round 0, keeping only the valid chain prefixes found
// at each round rather than re-deriving the ConsistentChain predicate from
// scratch on every candidate subset.
package enum

import (
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
)

// ConsistentChains returns every subset of dag that is a consistent chain
// containing at least one message at dag's maximum round.
func ConsistentChains(dag message.Set) []message.Set {
	return enumerate(dag, false)
}

// StronglyConsistentChains returns every subset of dag that is a
// strongly-consistent chain containing at least one message at dag's
// maximum round.
func StronglyConsistentChains(dag message.Set) []message.Set {
	return enumerate(dag, true)
}

// partial tracks one candidate chain while it is being built bottom-up:
// full is every message accumulated so far, tip is only the layer at the
// chain's current maximum round. The recursive predicate's Pred is always
// the layer immediately below the new tip being tested, i.e. the
// *previous* tip, never the whole accumulated history — keeping the two
// separate is what makes this correct for chains spanning more than two
// rounds.
type partial struct {
	full message.Set
	tip  message.Set
}

// enumerate builds every valid chain bottom-up, one round at a time.
// Starting a fresh chain at round 0 is always valid for any non-empty
// subset of round-0 messages; extending a chain from round r-1 to round r
// requires the new tip subset to satisfy the majority/subset condition
// against the chain's round r-1 layer exactly, per spec.md section 4.3.
//
// This is exponential in per-round fanout (every non-empty subset of each
// round's messages is tried), which spec.md explicitly accepts for the
// intended model sizes.
func enumerate(dag message.Set, strong bool) []message.Set {
	maxRound, ok := dag.MaxRound()
	if !ok {
		return nil
	}

	round0 := dag.Round(0)
	var chains []partial
	for _, s := range nonEmptySubsets(round0) {
		chains = append(chains, partial{full: s, tip: s})
	}

	for r := uint64(1); r <= maxRound; r++ {
		tipPool := dag.Round(r)
		if tipPool.Len() == 0 {
			// No messages at this round: no chain can be extended through
			// it, so no chain can reach maxRound. Enumeration collapses.
			chains = nil
			break
		}
		tipCandidates := nonEmptySubsets(tipPool)

		var next []partial
		for _, c := range chains {
			for _, tip := range tipCandidates {
				if extends(c.tip, tip, strong) {
					next = append(next, partial{full: c.full.Union(tip), tip: tip})
				}
			}
		}
		chains = next
		if len(chains) == 0 {
			break
		}
	}

	out := make([]message.Set, len(chains))
	for i, c := range chains {
		out[i] = c.full
	}
	return out
}

// extends reports whether tip can be validly appended on top of pred (the
// layer at tip's round minus one), per the ConsistentChain /
// StronglyConsistentChain tip condition.
func extends(pred, tip message.Set, strong bool) bool {
	if strong {
		predIDs := pred.IDs()
		for _, t := range tip {
			if !predIDs.SubsetOf(t.Coffer) {
				return false
			}
			if !idset.StrictMajorityCount(predIDs.Len(), t.Coffer.Len()) {
				return false
			}
		}
		return true
	}

	candidate := pred.IDs()
	for _, t := range tip {
		candidate = candidate.Intersection(t.Coffer)
	}
	if candidate.Len() == 0 {
		return false
	}
	for _, t := range tip {
		if !idset.StrictMajorityCount(candidate.Len(), t.Coffer.Len()) {
			return false
		}
	}
	return true
}

// nonEmptySubsets returns every non-empty subset of layer as a message.Set.
func nonEmptySubsets(layer message.Set) []message.Set {
	ids := layer.SortedIDs()
	n := len(ids)
	if n == 0 {
		return nil
	}
	subsets := make([]message.Set, 0, (1<<n)-1)
	for mask := 1; mask < (1 << n); mask++ {
		s := make(message.Set, popcount(mask))
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				s[id] = layer[id]
			}
		}
		subsets = append(subsets, s)
	}
	return subsets
}

func popcount(mask int) int {
	count := 0
	for mask != 0 {
		count += mask & 1
		mask >>= 1
	}
	return count
}
