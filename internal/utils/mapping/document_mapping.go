package mapping

import (
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/models"
)

// ToModelItems converts domain line items to item rows
func ToModelItems(ds []domain.LineItem) []models.DocumentItem {
	ms := make([]models.DocumentItem, len(ds))
	for i, d := range ds {
		ms[i] = models.DocumentItem{
			ItemID:      d.ItemID,
			DocumentID:  d.DocumentID,
			Position:    d.Position,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Total:       d.Total,
		}
	}
	return ms
}

// ToDomainItems converts item rows to domain line items
func ToDomainItems(ms []models.DocumentItem) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = domain.LineItem{
			ItemID:      m.ItemID,
			DocumentID:  m.DocumentID,
			Position:    m.Position,
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			Total:       m.Total,
		}
	}
	return ds
}

// ToModelQuote converts a domain Quote to a model Quote. Items are stored separately.
func ToModelQuote(d domain.Quote) models.Quote {
	return models.Quote{
		QuoteID:            d.QuoteID,
		Number:             d.Number,
		ClientID:           d.ClientID,
		Date:               d.Date,
		ValidUntil:         d.ValidUntil,
		Status:             string(d.Status),
		Subtotal:           d.Subtotal,
		TaxRate:            d.TaxRate,
		TaxAmount:          d.TaxAmount,
		Total:              d.Total,
		Notes:              d.Notes,
		TermsAndConditions: d.TermsAndConditions,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainQuote converts a model Quote and its item rows to a domain Quote
func ToDomainQuote(m models.Quote, items []models.DocumentItem) domain.Quote {
	return domain.Quote{
		QuoteID:    m.QuoteID,
		Number:     m.Number,
		ClientID:   m.ClientID,
		Date:       m.Date,
		ValidUntil: m.ValidUntil,
		Status:     domain.QuoteStatus(m.Status),
		Items:      ToDomainItems(items),
		Totals: domain.Totals{
			Subtotal:  m.Subtotal,
			TaxRate:   m.TaxRate,
			TaxAmount: m.TaxAmount,
			Total:     m.Total,
		},
		Notes:              m.Notes,
		TermsAndConditions: m.TermsAndConditions,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice. Items are stored separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:          d.InvoiceID,
		Number:             d.Number,
		ClientID:           d.ClientID,
		QuoteID:            d.QuoteID,
		Date:               d.Date,
		DueDate:            d.DueDate,
		PaidDate:           d.PaidDate,
		PaymentMethod:      d.PaymentMethod,
		PaymentNotes:       d.PaymentNotes,
		Status:             string(d.Status),
		Subtotal:           d.Subtotal,
		TaxRate:            d.TaxRate,
		TaxAmount:          d.TaxAmount,
		Total:              d.Total,
		Notes:              d.Notes,
		TermsAndConditions: d.TermsAndConditions,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice and its item rows to a domain Invoice
func ToDomainInvoice(m models.Invoice, items []models.DocumentItem) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		Number:        m.Number,
		ClientID:      m.ClientID,
		QuoteID:       m.QuoteID,
		Date:          m.Date,
		DueDate:       m.DueDate,
		PaidDate:      m.PaidDate,
		PaymentMethod: m.PaymentMethod,
		PaymentNotes:  m.PaymentNotes,
		Status:        domain.InvoiceStatus(m.Status),
		Items:         ToDomainItems(items),
		Totals: domain.Totals{
			Subtotal:  m.Subtotal,
			TaxRate:   m.TaxRate,
			TaxAmount: m.TaxAmount,
			Total:     m.Total,
		},
		Notes:              m.Notes,
		TermsAndConditions: m.TermsAndConditions,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
