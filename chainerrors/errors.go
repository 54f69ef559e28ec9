// Package chainerrors collects the sentinel errors for the taxonomy
// described in spec.md section 7. ConfigError and SafetyViolation entries
// are meant to be surfaced to the host; MessageMalformed and ViewIncomplete
// entries stay local (a dropped message, a process that waits): the
// function that detects one (message.DAG.Add, roundsm.Process.TickStart)
// returns it to its immediate caller, and the roundsm drivers log it and
// keep running instead of halting.
package chainerrors

import "errors"

// Config errors: fatal at init.
var (
	// ErrRateInvariant reports that |W|*tAdv > |B|*tWB does not hold.
	ErrRateInvariant = errors.New("chainerrors: rate invariant |W|*tAdv > |B|*tWB violated")
	// ErrByzantineNotSubset reports that the Byzantine set is not a subset
	// of the process set.
	ErrByzantineNotSubset = errors.New("chainerrors: byzantine set is not a subset of the process set")
	// ErrNonPositivePeriod reports that tWB or tAdv is not a positive integer.
	ErrNonPositivePeriod = errors.New("chainerrors: VDF period must be positive")
	// ErrEmptyProcessSet reports that the configured process set is empty.
	ErrEmptyProcessSet = errors.New("chainerrors: process set must be non-empty")
)

// Message errors: the offending message is dropped, a counter is
// incremented, and message.DAG.Add returns the error to its caller; the
// simulation drivers log it and do not halt.
var (
	// ErrDuplicateMessageID reports a message whose id already exists in the DAG.
	ErrDuplicateMessageID = errors.New("chainerrors: duplicate message id")
	// ErrRound0HasCoffer reports a round-0 message with a non-empty coffer.
	ErrRound0HasCoffer = errors.New("chainerrors: round-0 message must have an empty coffer")
)

// ErrViewIncomplete reports that a well-behaved process was asked to start
// a VDF period but its view is not Complete (some coffer entry does not
// resolve to a message one round below). Whether the view holds every
// well-behaved message is not checked. The process emits nothing for that
// period and tries again at its next period boundary, not on the next tick.
var ErrViewIncomplete = errors.New("chainerrors: view is not complete enough to start a VDF period")

// ErrSafetyViolation reports that the section 4.8 safety obligation failed
// after a well-behaved emission. This should never happen in a correct
// implementation under the rate invariant; it is surfaced immediately and
// the caller should halt.
var ErrSafetyViolation = errors.New("chainerrors: safety obligation violated by a well-behaved message")
