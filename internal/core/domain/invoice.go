package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/erp_lite/internal/apperrors"
)

// InvoiceStatus is the closed set of invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

var invoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPartiallyPaid,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

var invoiceTransitions = transitionTable[InvoiceStatus]{
	InvoiceStatusDraft: {
		InvoiceStatusSent: {TriggerManual},
	},
	InvoiceStatusSent: {
		InvoiceStatusPartiallyPaid: {TriggerManual},
		InvoiceStatusPaid:          {TriggerManual},
		InvoiceStatusCancelled:     {TriggerManual},
		InvoiceStatusOverdue:       {TriggerSweep},
	},
	InvoiceStatusPartiallyPaid: {
		InvoiceStatusPartiallyPaid: {TriggerManual},
		InvoiceStatusPaid:          {TriggerManual},
		InvoiceStatusCancelled:     {TriggerManual},
		InvoiceStatusOverdue:       {TriggerSweep},
	},
	InvoiceStatusOverdue: {
		InvoiceStatusPartiallyPaid: {TriggerManual},
		InvoiceStatusPaid:          {TriggerManual},
		InvoiceStatusCancelled:     {TriggerManual},
	},
}

// InvoiceStatuses lists every valid invoice status.
func InvoiceStatuses() []InvoiceStatus {
	out := make([]InvoiceStatus, len(invoiceStatuses))
	copy(out, invoiceStatuses)
	return out
}

// ParseInvoiceStatus converts untrusted input into an InvoiceStatus.
func ParseInvoiceStatus(raw string) (InvoiceStatus, error) {
	candidate := InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.IsValid() {
		return "", &StatusParseError{Kind: "invoice", Value: raw}
	}
	return candidate, nil
}

func (s InvoiceStatus) IsValid() bool {
	for _, known := range invoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// IsUnpaid reports whether the invoice still expects a payment.
func (s InvoiceStatus) IsUnpaid() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusOverdue
}

func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus, trigger TransitionTrigger) bool {
	return invoiceTransitions.allows(s, target, trigger)
}

// Invoice is a billing document, optionally created from a converted quote.
type Invoice struct {
	InvoiceID          string        `json:"invoiceID"`
	Number             string        `json:"number"`
	ClientID           string        `json:"clientID"`
	QuoteID            *string       `json:"quoteID,omitempty"`
	Date               time.Time     `json:"date"`
	DueDate            *time.Time    `json:"dueDate,omitempty"`
	PaidDate           *time.Time    `json:"paidDate,omitempty"`
	PaymentMethod      string        `json:"paymentMethod,omitempty"`
	PaymentNotes       string        `json:"paymentNotes,omitempty"`
	Status             InvoiceStatus `json:"status"`
	Items              []LineItem    `json:"items"`
	Totals
	Notes              string `json:"notes"`
	TermsAndConditions string `json:"termsAndConditions"`
	Version            int64  `json:"version"`
	AuditFields
}

// TransitionTo moves the invoice to target if the lifecycle allows it for trigger. Entering PAID
// records asOf as the paid date.
func (inv *Invoice) TransitionTo(target InvoiceStatus, trigger TransitionTrigger, asOf time.Time) error {
	if !target.IsValid() {
		return &StatusParseError{Kind: "invoice", Value: string(target)}
	}
	if !inv.Status.CanTransitionTo(target, trigger) {
		return fmt.Errorf("%w: invoice %s cannot move from %s to %s (%s)",
			apperrors.ErrInvalidTransition, inv.Number, inv.Status, target, strings.ToLower(string(trigger)))
	}
	inv.Status = target
	if target == InvoiceStatusPaid {
		paid := asOf
		inv.PaidDate = &paid
	}
	return nil
}

// MarkPaid settles the invoice on paidDate.
func (inv *Invoice) MarkPaid(paidDate time.Time, method, notes string) error {
	if paidDate.Before(inv.Date) {
		return fmt.Errorf("%w: paid date %s is before invoice date %s",
			apperrors.ErrValidation, paidDate.Format(time.DateOnly), inv.Date.Format(time.DateOnly))
	}
	if err := inv.TransitionTo(InvoiceStatusPaid, TriggerManual, paidDate); err != nil {
		return err
	}
	inv.PaymentMethod = method
	inv.PaymentNotes = notes
	return nil
}

// IsOverdue reports whether the sweeper should flag the invoice as of today.
func (inv *Invoice) IsOverdue(today time.Time) bool {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusPartiallyPaid {
		return false
	}
	return inv.DueDate != nil && inv.DueDate.Before(today)
}
