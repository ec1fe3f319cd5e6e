package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/erp_lite/internal/apperrors"
)

// ConversionPolicy decides which quote statuses may be converted into an invoice, and the
// status the resulting invoice starts in.
type ConversionPolicy struct {
	eligible      []QuoteStatus
	InvoiceStatus InvoiceStatus
}

// DefaultConversionPolicy converts SENT and ACCEPTED quotes into SENT invoices.
func DefaultConversionPolicy() ConversionPolicy {
	return ConversionPolicy{
		eligible:      []QuoteStatus{QuoteStatusSent, QuoteStatusAccepted},
		InvoiceStatus: InvoiceStatusSent,
	}
}

// NewConversionPolicy validates a configured policy. Every eligible status must be able to
// reach CONVERTED, and the invoice may only start as DRAFT or SENT.
func NewConversionPolicy(eligible []QuoteStatus, invoiceStatus InvoiceStatus) (ConversionPolicy, error) {
	if len(eligible) == 0 {
		return ConversionPolicy{}, fmt.Errorf("%w: conversion policy needs at least one eligible quote status", apperrors.ErrValidation)
	}
	for _, s := range eligible {
		if !s.CanTransitionTo(QuoteStatusConverted, TriggerConversion) {
			return ConversionPolicy{}, fmt.Errorf("%w: quotes in status %s can never be converted", apperrors.ErrValidation, s)
		}
	}
	if invoiceStatus != InvoiceStatusDraft && invoiceStatus != InvoiceStatusSent {
		return ConversionPolicy{}, fmt.Errorf("%w: converted invoices must start as DRAFT or SENT, got %s", apperrors.ErrValidation, invoiceStatus)
	}
	return ConversionPolicy{eligible: append([]QuoteStatus(nil), eligible...), InvoiceStatus: invoiceStatus}, nil
}

// ParseConversionPolicy builds a policy from configuration strings such as "SENT,ACCEPTED".
func ParseConversionPolicy(eligibleCSV, invoiceStatus string) (ConversionPolicy, error) {
	var eligible []QuoteStatus
	for _, raw := range strings.Split(eligibleCSV, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := ParseQuoteStatus(raw)
		if err != nil {
			return ConversionPolicy{}, err
		}
		eligible = append(eligible, s)
	}
	target, err := ParseInvoiceStatus(invoiceStatus)
	if err != nil {
		return ConversionPolicy{}, err
	}
	return NewConversionPolicy(eligible, target)
}

// Eligible lists the statuses a quote may be converted from.
func (p ConversionPolicy) Eligible() []QuoteStatus {
	return append([]QuoteStatus(nil), p.eligible...)
}

// Allows reports whether a quote in status s may be converted.
func (p ConversionPolicy) Allows(s QuoteStatus) bool {
	for _, e := range p.eligible {
		if e == s {
			return true
		}
	}
	return false
}

// CheckQuote returns ErrInvalidTransition unless q may be converted under this policy.
func (p ConversionPolicy) CheckQuote(q *Quote) error {
	if !p.Allows(q.Status) || !q.Status.CanTransitionTo(QuoteStatusConverted, TriggerConversion) {
		return fmt.Errorf("%w: quote %s in status %s is not eligible for conversion", apperrors.ErrInvalidTransition, q.Number, q.Status)
	}
	return nil
}
