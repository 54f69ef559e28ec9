// Package accept implements the Accepted predicate of spec.md section 4.6:
// the commit rule each well-behaved process evaluates against its own view
// before starting a new VDF period.
package accept

import (
	"github.com/nano-o/vdf-consensus/chainalg/enum"
	"github.com/nano-o/vdf-consensus/chainalg/weight"
	"github.com/nano-o/vdf-consensus/message"
)

// Accepted returns the subset of dag that never lies on the strictly
// lighter side of a disjoint strongly-consistent-chain split: m is accepted
// iff for every pair of strongly-consistent chains C1, C2 with m in C1, m
// not in C2, and C1 disjoint from C2, |C1| >= |C2|.
func Accepted(dag message.Set) message.Set {
	chains := enum.StronglyConsistentChains(dag)

	accepted := make(message.Set)
	for id, m := range dag {
		if isAccepted(id, chains) {
			accepted[id] = m
		}
	}
	return accepted
}

func isAccepted(id message.MessageId, chains []message.Set) bool {
	var with, without []message.Set
	for _, c := range chains {
		if c.Contains(id) {
			with = append(with, c)
		} else {
			without = append(without, c)
		}
	}
	for _, c1 := range with {
		for _, c2 := range without {
			if weight.Disjoint(c1, c2) && weight.Weight(c1) < weight.Weight(c2) {
				return false
			}
		}
	}
	return true
}
