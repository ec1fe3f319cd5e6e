package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
)

// QuoteStatus is the closed set of quote lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "DRAFT"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
	QuoteStatusConverted QuoteStatus = "CONVERTED"
)

var quoteStatuses = []QuoteStatus{
	QuoteStatusDraft,
	QuoteStatusSent,
	QuoteStatusAccepted,
	QuoteStatusRejected,
	QuoteStatusExpired,
	QuoteStatusConverted,
}

var quoteTransitions = transitionTable[QuoteStatus]{
	QuoteStatusDraft: {
		QuoteStatusSent: {TriggerManual},
	},
	QuoteStatusSent: {
		QuoteStatusAccepted:  {TriggerManual},
		QuoteStatusRejected:  {TriggerManual},
		QuoteStatusExpired:   {TriggerSweep},
		QuoteStatusConverted: {TriggerConversion},
	},
	QuoteStatusAccepted: {
		QuoteStatusConverted: {TriggerConversion},
	},
}

// QuoteStatuses lists every valid quote status.
func QuoteStatuses() []QuoteStatus {
	out := make([]QuoteStatus, len(quoteStatuses))
	copy(out, quoteStatuses)
	return out
}

// ParseQuoteStatus converts untrusted input into a QuoteStatus.
func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	candidate := QuoteStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.IsValid() {
		return "", &StatusParseError{Kind: "quote", Value: raw}
	}
	return candidate, nil
}

func (s QuoteStatus) IsValid() bool {
	for _, known := range quoteStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusRejected || s == QuoteStatusExpired || s == QuoteStatusConverted
}

// CanTransitionTo reports whether trigger may move a quote from s to target.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus, trigger TransitionTrigger) bool {
	return quoteTransitions.allows(s, target, trigger)
}

// Quote is a price estimate sent to a client.
type Quote struct {
	QuoteID            string      `json:"quoteID"`
	Number             string      `json:"number"`
	ClientID           string      `json:"clientID"`
	Date               time.Time   `json:"date"`
	ValidUntil         *time.Time  `json:"validUntil,omitempty"`
	Status             QuoteStatus `json:"status"`
	Items              []LineItem  `json:"items"`
	Totals
	Notes              string `json:"notes"`
	TermsAndConditions string `json:"termsAndConditions"`
	Version            int64  `json:"version"`
	AuditFields
}

// TransitionTo moves the quote to target if the lifecycle allows it for trigger. On failure the
// quote is left untouched.
func (q *Quote) TransitionTo(target QuoteStatus, trigger TransitionTrigger) error {
	if !target.IsValid() {
		return &StatusParseError{Kind: "quote", Value: string(target)}
	}
	if !q.Status.CanTransitionTo(target, trigger) {
		return fmt.Errorf("%w: quote %s cannot move from %s to %s (%s)",
			apperrors.ErrInvalidTransition, q.Number, q.Status, target, strings.ToLower(string(trigger)))
	}
	q.Status = target
	return nil
}

// IsExpirable reports whether the sweeper should expire the quote as of today.
func (q *Quote) IsExpirable(today time.Time) bool {
	return q.Status == QuoteStatusSent && q.ValidUntil != nil && q.ValidUntil.Before(today)
}
