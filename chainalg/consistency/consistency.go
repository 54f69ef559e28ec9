// Package consistency implements the ConsistentSet, ConsistentChain and
// StronglyConsistentChain predicates of spec.md sections 4.2 and 4.3.
package consistency

import (
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
)

// ConsistentSet reports whether M is consistent: letting I be the
// intersection of every message's coffer, M is consistent iff every member
// of M agrees with that intersection on a strict majority of its own
// coffer. The empty set is vacuously consistent.
func ConsistentSet(m message.Set) bool {
	if m.Len() == 0 {
		return true
	}
	coffers := make([]idset.Set[message.MessageId], 0, m.Len())
	for _, msg := range m {
		coffers = append(coffers, msg.Coffer)
	}
	intersection := idset.Intersection(coffers)
	for _, msg := range m {
		if !idset.StrictMajorityCount(intersection.Len(), msg.Coffer.Len()) {
			return false
		}
	}
	return true
}

// ConsistentChain reports whether M is a consistent chain, per spec.md
// section 4.3.
func ConsistentChain(m message.Set) bool {
	return consistentChain(m, false)
}

// StronglyConsistentChain reports whether M is a strongly-consistent chain:
// a consistent chain whose tip, at every round, names the entirety of the
// prior round's messages present in M (not merely a majority subset of
// them), per spec.md section 4.3.
func StronglyConsistentChain(m message.Set) bool {
	return consistentChain(m, true)
}

// consistentChain implements both predicates by descending from the
// maximum round present in m, per spec.md's recursive definition. Rather
// than literally searching for an existentially-quantified majority subset
// Maj of Pred, it computes the unique largest candidate that could possibly
// work -- Pred intersected with the intersection of every tip message's
// coffer -- and checks that candidate directly: since a larger candidate
// only makes the 2*|Maj| > |coffer| test easier to satisfy, if the largest
// candidate fails for some tip message, no smaller subset can succeed
// either.
func consistentChain(m message.Set, strong bool) bool {
	if m.Len() == 0 {
		return false
	}
	r, _ := m.MaxRound()
	if r == 0 {
		return true
	}
	tip := m.Round(r)
	if tip.Len() == 0 {
		return false
	}
	pred := m.Round(r - 1)

	if strong {
		if pred.Len() == 0 {
			return false
		}
		predIDs := pred.IDs()
		for _, t := range tip {
			if !predIDs.SubsetOf(t.Coffer) {
				return false
			}
			if !idset.StrictMajorityCount(predIDs.Len(), t.Coffer.Len()) {
				return false
			}
		}
	} else {
		if pred.Len() == 0 {
			return false
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
	}

	return consistentChain(m.WithoutRound(r), strong)
}
