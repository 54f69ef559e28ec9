// Package message implements the message model and DAG store described in
// spec.md section 3: opaque message ids, messages with a self-declared
// round and a coffer of predecessor ids, and the append-only DAG that
// accumulates them.
package message

import (
	"fmt"
	"sort"

	"github.com/nano-o/vdf-consensus/idset"
)

// ProcessID identifies a process in the fixed process set P. The algebra
// never inspects it beyond equality; it exists only so logs and tests can
// name processes instead of indexing them.
type ProcessID string

// MessageId is an opaque identifier, unique across the DAG. In this
// implementation it is the (process, counter) pair spec.md suggests is
// sufficient, but every predicate in this module depends only on equality
// of MessageId values, never on their internal structure.
type MessageId struct {
	Process ProcessID
	Counter uint64
}

// String renders a MessageId for logs and test failure output.
func (id MessageId) String() string {
	return fmt.Sprintf("%s/%d", id.Process, id.Counter)
}

// Message is an immutable DAG node: an id, a self-declared round, and the
// set of predecessor ids it names (its "coffer"). The round is not trusted
// to be the true causal depth; it is a tag a process assigns itself.
type Message struct {
	ID     MessageId
	Round  uint64
	Coffer idset.Set[MessageId]
}

// Clone returns a deep-enough copy of m: the Coffer set is copied so the
// caller may mutate it without aliasing the original message.
func (m Message) Clone() Message {
	return Message{ID: m.ID, Round: m.Round, Coffer: m.Coffer.Clone()}
}

// Set is an unordered collection of messages keyed by id: a DAG, a chain, or
// any other subset the algebra needs to reason about. Unlike idset.Set[T],
// Set is keyed on MessageId but stores the full Message value, since
// Message itself is not comparable (it embeds a map).
type Set map[MessageId]Message

// NewSet returns an empty Set, optionally seeded with msgs.
func NewSet(msgs ...Message) Set {
	s := make(Set, len(msgs))
	for _, m := range msgs {
		s.Add(m)
	}
	return s
}

// Add inserts m into s, keyed by m.ID.
func (s Set) Add(m Message) {
	s[m.ID] = m
}

// Contains reports whether s has a message with the given id.
func (s Set) Contains(id MessageId) bool {
	_, ok := s[id]
	return ok
}

// Get returns the message with the given id, if present.
func (s Set) Get(id MessageId) (Message, bool) {
	m, ok := s[id]
	return m, ok
}

// Len returns the number of messages in s.
func (s Set) Len() int {
	return len(s)
}

// IDs returns the set of message ids in s.
func (s Set) IDs() idset.Set[MessageId] {
	ids := make(idset.Set[MessageId], len(s))
	for id := range s {
		ids.Add(id)
	}
	return ids
}

// Round returns the subset of s whose Round field equals r.
func (s Set) Round(r uint64) Set {
	out := make(Set)
	for id, m := range s {
		if m.Round == r {
			out[id] = m
		}
	}
	return out
}

// WithoutRound returns the subset of s excluding messages at round r; this
// is M \ Tip in spec.md's recursive chain predicates.
func (s Set) WithoutRound(r uint64) Set {
	out := make(Set, len(s))
	for id, m := range s {
		if m.Round != r {
			out[id] = m
		}
	}
	return out
}

// AtMostRound returns the subset of s whose Round field is <= r. A
// well-behaved process uses this to ignore messages beyond its current
// round when forming its own next message (spec.md section 4.4).
func (s Set) AtMostRound(r uint64) Set {
	out := make(Set)
	for id, m := range s {
		if m.Round <= r {
			out[id] = m
		}
	}
	return out
}

// IsComplete reports whether every coffer entry in s resolves to a message
// in s at exactly one round below its referrer (spec.md section 3,
// invariant 2). This is the same check DAG.IsComplete performs, exposed
// directly on a Set snapshot so callers that only hold a Set (a process's
// view, a chain) need not round-trip through a DAG.
func (s Set) IsComplete() bool {
	for _, m := range s {
		for id := range m.Coffer {
			pred, ok := s[id]
			if !ok || pred.Round != m.Round-1 {
				return false
			}
		}
	}
	return true
}

// MaxRound returns the greatest round present in s, and false if s is empty.
func (s Set) MaxRound() (uint64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	var max uint64
	first := true
	for _, m := range s {
		if first || m.Round > max {
			max = m.Round
			first = false
		}
	}
	return max, true
}

// Union returns a new Set containing every message in s or other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id, m := range s {
		out[id] = m
	}
	for id, m := range other {
		out[id] = m
	}
	return out
}

// Clone returns a shallow copy of s (messages themselves are immutable, so
// this is safe without deep-copying each Message).
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id, m := range s {
		out[id] = m
	}
	return out
}

// SortedIDs returns the message ids in s in a fixed, deterministic order
// (lexicographic on the string form of MessageId). This backs the
// deterministic tie-break the chain-selection operators require per
// spec.md section 9.
func (s Set) SortedIDs() []MessageId {
	ids := make([]MessageId, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
