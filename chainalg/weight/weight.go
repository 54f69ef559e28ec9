// Package weight implements the weight and component-selection operators of
// spec.md section 4.5: heaviest chain(s), disjointness, connected
// components by non-disjointness, and the heaviest component.
package weight

import (
	"sort"

	"github.com/nano-o/vdf-consensus/chainalg/enum"
	"github.com/nano-o/vdf-consensus/message"
)

// Weight is the cardinality of a chain.
func Weight(chain message.Set) int {
	return chain.Len()
}

// HeaviestConsistentChain returns one chain of maximum cardinality among
// dag's consistent chains, and false if dag has none. Ties are broken
// deterministically: among chains of maximum weight, the one whose sorted
// message-id list is lexicographically smallest is chosen, per spec.md
// section 9's "CHOOSE operator -> deterministic tie-break" note.
func HeaviestConsistentChain(dag message.Set) (message.Set, bool) {
	return heaviest(enum.ConsistentChains(dag))
}

// HeaviestConsistentChains returns every consistent chain of dag achieving
// the maximum cardinality.
func HeaviestConsistentChains(dag message.Set) []message.Set {
	return allHeaviest(enum.ConsistentChains(dag))
}

func heaviest(chains []message.Set) (message.Set, bool) {
	all := allHeaviest(chains)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// allHeaviest returns every chain of maximum weight, ordered deterministically
// (lexicographically smallest id list first).
func allHeaviest(chains []message.Set) []message.Set {
	if len(chains) == 0 {
		return nil
	}
	maxWeight := 0
	for _, c := range chains {
		if w := Weight(c); w > maxWeight {
			maxWeight = w
		}
	}
	var out []message.Set
	for _, c := range chains {
		if Weight(c) == maxWeight {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lexLess(out[i], out[j])
	})
	return out
}

// lexLess orders two chains by the lexicographic comparison of their
// sorted message-id lists.
func lexLess(a, b message.Set) bool {
	aIDs, bIDs := a.SortedIDs(), b.SortedIDs()
	for i := 0; i < len(aIDs) && i < len(bIDs); i++ {
		as, bs := aIDs[i].String(), bIDs[i].String()
		if as != bs {
			return as < bs
		}
	}
	return len(aIDs) < len(bIDs)
}

// Disjoint reports whether c1 and c2, assumed to share the same maximum
// round, diverged at some earlier round: some round r below that maximum
// at which they share no message. This means "disjoint" is "forked", not
// "entirely non-overlapping".
func Disjoint(c1, c2 message.Set) bool {
	r1, ok1 := c1.MaxRound()
	r2, ok2 := c2.MaxRound()
	if !ok1 || !ok2 {
		return false
	}
	rmax := r1
	if r2 < rmax {
		rmax = r2
	}
	for r := uint64(0); r < rmax; r++ {
		ids1 := c1.Round(r).IDs()
		ids2 := c2.Round(r).IDs()
		if ids1.Intersection(ids2).Len() == 0 {
			return true
		}
	}
	return false
}

// Components partitions chains into maximal groups linked transitively by
// non-disjointness: two chains join the same component if they are not
// disjoint, or are each linked to a common chain that is not disjoint from
// both.
func Components(chains []message.Set) [][]message.Set {
	n := len(chains)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[ri] = rj
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !Disjoint(chains[i], chains[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]message.Set)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], chains[i])
	}

	out := make([][]message.Set, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}

// union returns the union of every chain in a component.
func union(component []message.Set) message.Set {
	out := make(message.Set)
	for _, c := range component {
		for id, m := range c {
			out[id] = m
		}
	}
	return out
}

// HeaviestComponent runs Components over dag's strongly-consistent chains
// and returns the union of the component with the greatest total
// cardinality.
func HeaviestComponent(dag message.Set) (message.Set, bool) {
	chains := enum.StronglyConsistentChains(dag)
	components := Components(chains)
	if len(components) == 0 {
		return nil, false
	}
	unions := make([]message.Set, len(components))
	for i, c := range components {
		unions[i] = union(c)
	}
	return heaviest(unions)
}
