package domain

import "time"

// DocumentEventType names a lifecycle event handed to downstream collaborators (mailers,
// PDF renderers).
type DocumentEventType string

const (
	EventQuoteCreated         DocumentEventType = "quote.created"
	EventQuoteUpdated         DocumentEventType = "quote.updated"
	EventQuoteStatusChanged   DocumentEventType = "quote.status_changed"
	EventQuoteConverted       DocumentEventType = "quote.converted"
	EventQuoteDeleted         DocumentEventType = "quote.deleted"
	EventInvoiceCreated       DocumentEventType = "invoice.created"
	EventInvoiceUpdated       DocumentEventType = "invoice.updated"
	EventInvoiceStatusChanged DocumentEventType = "invoice.status_changed"
	EventInvoiceDeleted       DocumentEventType = "invoice.deleted"
)

// DocumentEvent carries a plain snapshot of the document (items and totals included) as it
// stood after the committed change.
type DocumentEvent struct {
	EventID        string            `json:"eventID"`
	Type           DocumentEventType `json:"type"`
	OccurredAt     time.Time         `json:"occurredAt"`
	DocumentType   DocumentType      `json:"documentType"`
	DocumentID     string            `json:"documentID"`
	Number         string            `json:"number"`
	PreviousStatus string            `json:"previousStatus,omitempty"`
	Status         string            `json:"status"`
	Trigger        TransitionTrigger `json:"trigger,omitempty"`
	Quote          *Quote            `json:"quote,omitempty"`
	Invoice        *Invoice          `json:"invoice,omitempty"`
}

// Key is the partitioning key for the event stream; all events of one document stay ordered.
func (e DocumentEvent) Key() string {
	return e.DocumentID
}
