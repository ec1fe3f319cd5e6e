package domain

import (
	"fmt"

	"github.com/SscSPs/erp_lite/internal/apperrors"
)

// TransitionTrigger identifies the actor asking for a status change. Some edges of the
// document lifecycles are reserved for a single trigger (expiry for the sweeper,
// CONVERTED for the conversion service).
type TransitionTrigger string

const (
	TriggerManual     TransitionTrigger = "MANUAL"
	TriggerSweep      TransitionTrigger = "SWEEP"
	TriggerConversion TransitionTrigger = "CONVERSION"
)

// StatusParseError is returned when untrusted input does not name a member of a status enum.
type StatusParseError struct {
	Kind  string
	Value string
}

func (e *StatusParseError) Error() string {
	return fmt.Sprintf("unknown %s status %q", e.Kind, e.Value)
}

// Unwrap lets callers match parse failures with errors.Is(err, apperrors.ErrValidation).
func (e *StatusParseError) Unwrap() error {
	return apperrors.ErrValidation
}

// transitionTable maps from -> to -> triggers allowed to take that edge.
type transitionTable[S comparable] map[S]map[S][]TransitionTrigger

func (t transitionTable[S]) allows(from, to S, trigger TransitionTrigger) bool {
	for _, allowed := range t[from][to] {
		if allowed == trigger {
			return true
		}
	}
	return false
}
