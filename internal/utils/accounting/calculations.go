package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for every currency amount.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to MoneyScale places, half away from zero. Amounts here are never
// negative, so this is the usual half-up rounding.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// ItemTotal returns round(unitPrice * quantity).
func ItemTotal(item domain.LineItem) decimal.Decimal {
	return RoundMoney(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
}

// TaxAmount returns round(subtotal * taxRate / 100).
func TaxAmount(subtotal, taxRate decimal.Decimal) decimal.Decimal {
	return RoundMoney(subtotal.Mul(taxRate).Div(hundred))
}

// hasMoneyScale reports whether d carries no more than MoneyScale significant decimal places.
// Trailing zeros beyond the scale are accepted.
func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ValidateLineItems rejects items that cannot be priced or stored.
func ValidateLineItems(items []domain.LineItem) error {
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be at least 1, got %d", apperrors.ErrValidation, i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d unit price must not be negative, got %s", apperrors.ErrValidation, i+1, item.UnitPrice)
		}
		if !hasMoneyScale(item.UnitPrice) {
			return fmt.Errorf("%w: item %d unit price has more than %d decimal places, got %s", apperrors.ErrValidation, i+1, MoneyScale, item.UnitPrice)
		}
	}
	return nil
}

func validateTaxRate(taxRate decimal.Decimal) error {
	if taxRate.IsNegative() {
		return fmt.Errorf("%w: tax rate must not be negative, got %s", apperrors.ErrValidation, taxRate)
	}
	if !hasMoneyScale(taxRate) {
		return fmt.Errorf("%w: tax rate has more than %d decimal places, got %s", apperrors.ErrValidation, MoneyScale, taxRate)
	}
	return nil
}

// CalculateTotals prices every item and derives the document totals. The input slice is not
// modified; the returned items carry their computed totals.
func CalculateTotals(items []domain.LineItem, taxRate decimal.Decimal) ([]domain.LineItem, domain.Totals, error) {
	if err := validateTaxRate(taxRate); err != nil {
		return nil, domain.Totals{}, err
	}
	if err := ValidateLineItems(items); err != nil {
		return nil, domain.Totals{}, err
	}

	priced := make([]domain.LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item.Total = ItemTotal(item)
		priced[i] = item
		subtotal = subtotal.Add(item.Total)
	}

	taxAmount := TaxAmount(subtotal, taxRate)
	return priced, domain.Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}

// ManualTotals derives totals for a document without items, from a subtotal entered by hand.
func ManualTotals(subtotal, taxRate decimal.Decimal) (domain.Totals, error) {
	if err := validateTaxRate(taxRate); err != nil {
		return domain.Totals{}, err
	}
	if subtotal.IsNegative() {
		return domain.Totals{}, fmt.Errorf("%w: subtotal must not be negative, got %s", apperrors.ErrValidation, subtotal)
	}
	subtotal = RoundMoney(subtotal)
	taxAmount := TaxAmount(subtotal, taxRate)
	return domain.Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}
