package dto

import (
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one item of a quote or invoice as supplied by the caller. The line total
// is always computed, never accepted.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	ItemID      string          `json:"itemID"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// ChangeStatusRequest asks for a manual status transition. PaidDate is only read when the
// target is PAID.
type ChangeStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	PaidDate *Date  `json:"paidDate,omitempty"`
}

// ToLineItems converts request items into unpriced domain items.
func ToLineItems(reqs []LineItemRequest) []domain.LineItem {
	items := make([]domain.LineItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.LineItem{
			Position:    i + 1,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
	}
	return items
}

// ToLineItemResponses converts domain items to their response form.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	res := make([]LineItemResponse, len(items))
	for i, item := range items {
		res[i] = LineItemResponse{
			ItemID:      item.ItemID,
			Position:    item.Position,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return res
}
