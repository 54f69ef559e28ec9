// Package idset implements a generic set data structure and the
// set-theoretic primitives the chain-selection algebra is built from:
// intersection of a set of sets, and the strict-majority predicate.
package idset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// Set is a set of unique, comparable elements.
type Set[T comparable] map[T]struct{}

// Of returns a Set initialized with elts.
func Of[T comparable](elts ...T) Set[T] {
	s := make(Set[T], len(elts))
	s.Add(elts...)
	return s
}

// Add adds elements to the set.
func (s Set[T]) Add(elts ...T) {
	for _, elt := range elts {
		s[elt] = struct{}{}
	}
}

// Contains returns true if the set contains elt.
func (s Set[T]) Contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

// Remove removes elements from the set.
func (s Set[T]) Remove(elts ...T) {
	for _, elt := range elts {
		delete(s, elt)
	}
}

// Clear removes all elements from the set.
func (s Set[T]) Clear() {
	maps.Clear(s)
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

// List returns the elements of the set as a slice, in non-deterministic order.
func (s Set[T]) List() []T {
	return maps.Keys(s)
}

// Equals returns true if the two sets contain the same elements.
func (s Set[T]) Equals(other Set[T]) bool {
	return maps.Equal(s, other)
}

// Union returns a new set containing all elements from both sets.
func (s Set[T]) Union(other Set[T]) Set[T] {
	result := make(Set[T], max(s.Len(), other.Len()))
	maps.Copy(result, s)
	maps.Copy(result, other)
	return result
}

// Intersection returns a new set containing only elements present in both sets.
func (s Set[T]) Intersection(other Set[T]) Set[T] {
	result := make(Set[T])
	small, big := s, other
	if big.Len() < small.Len() {
		small, big = big, small
	}
	for elt := range small {
		if big.Contains(elt) {
			result.Add(elt)
		}
	}
	return result
}

// Difference returns a new set containing elements in s that are not in other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	result := make(Set[T])
	for elt := range s {
		if !other.Contains(elt) {
			result.Add(elt)
		}
	}
	return result
}

// Overlaps returns true if the two sets share at least one element.
func (s Set[T]) Overlaps(other Set[T]) bool {
	small, big := s, other
	if big.Len() < small.Len() {
		small, big = big, small
	}
	for elt := range small {
		if big.Contains(elt) {
			return true
		}
	}
	return false
}

// SubsetOf returns true if every element of s is also in other.
func (s Set[T]) SubsetOf(other Set[T]) bool {
	for elt := range s {
		if !other.Contains(elt) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of the set.
func (s Set[T]) Clone() Set[T] {
	result := make(Set[T], s.Len())
	maps.Copy(result, s)
	return result
}

// MarshalJSON implements json.Marshaler.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var elts []T
	if err := json.Unmarshal(data, &elts); err != nil {
		return err
	}
	*s = Of(elts...)
	return nil
}

// String returns a deterministic string representation of the set, suitable
// for log lines and test failure messages (elements are sorted by %v).
func (s Set[T]) String() string {
	elts := make([]string, 0, s.Len())
	for elt := range s {
		elts = append(elts, fmt.Sprintf("%v", elt))
	}
	sort.Strings(elts)
	return "{" + strings.Join(elts, ", ") + "}"
}

// Intersection returns the intersection of a finite collection of sets, per
// spec.md 4.1: {} when sets is empty, the sole member when it is a
// singleton, and the pairwise fold otherwise. The result does not depend on
// the order of sets.
func Intersection[T comparable](sets []Set[T]) Set[T] {
	switch len(sets) {
	case 0:
		return make(Set[T])
	case 1:
		return sets[0].Clone()
	}
	result := sets[0].Clone()
	for _, s := range sets[1:] {
		result = result.Intersection(s)
	}
	return result
}

// StrictMajorityCount reports whether part is a strict majority of whole,
// i.e. 2*part > whole. This is the universal quorum predicate used
// throughout the chain-selection algebra.
func StrictMajorityCount(part, whole int) bool {
	return 2*part > whole
}

// StrictMajority reports whether part is a strict majority of whole.
func StrictMajority[T comparable](part, whole Set[T]) bool {
	return StrictMajorityCount(part.Len(), whole.Len())
}
