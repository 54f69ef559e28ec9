// Package adversary exposes the Byzantine process's existential choice
// (spec.md section 9, "Adversary existential choice -> injected oracle")
// as a callback interface, so a test harness can drive worst-case schedules
// instead of the round/tick state machine hard-coding one adversarial
// strategy.
package adversary

import (
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/message"
)

// Oracle chooses what a Byzantine process does at the start of a VDF
// period, subject only to the constraints spec.md section 4.7 names:
// the round may equal or exceed the maximum round the process has
// observed by one, and the coffer may be any subset of currently-known
// messages at the chosen round's predecessor layer.
type Oracle interface {
	// ChooseRound picks the round for the next message, given the
	// process's current view and the maximum round it has observed in
	// that view.
	ChooseRound(view message.Set, maxSeenRound uint64) uint64

	// ChooseCoffer picks the coffer for a message at the given round,
	// given the process's current view. predecessorLayer is the round-1
	// layer messages visible in view, provided for convenience.
	ChooseCoffer(view message.Set, round uint64, predecessorLayer message.Set) idset.Set[message.MessageId]
}

// Default is the simplest legal Byzantine strategy: always advance one
// round past the highest round seen, and name every known predecessor (the
// largest coffer permitted, itself a valid but unremarkable choice within
// the adversary's freedom).
type Default struct{}

// ChooseRound always proposes maxSeenRound+1.
func (Default) ChooseRound(_ message.Set, maxSeenRound uint64) uint64 {
	return maxSeenRound + 1
}

// ChooseCoffer names every message at the predecessor layer.
func (Default) ChooseCoffer(_ message.Set, _ uint64, predecessorLayer message.Set) idset.Set[message.MessageId] {
	return predecessorLayer.IDs()
}
