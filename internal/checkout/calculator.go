package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/db/models"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Options configures one totals computation.
type Options struct {
	TaxEnabled      bool
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Totals is derived from a cart on every read and never persisted.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// Rounded returns the totals rounded to two decimal places for display and
// wire payloads. Intermediate arithmetic stays exact.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       t.Subtotal.Round(2),
		TaxAmount:      t.TaxAmount.Round(2),
		DiscountAmount: t.DiscountAmount.Round(2),
		Total:          t.Total.Round(2),
	}
}

// ComputeTotals derives subtotal, tax, discount and total from cart lines.
// The discount is clamped so the total never goes negative. An empty cart
// computes zero totals; rejecting its submission is the submitter's job.
func ComputeTotals(lines []models.CartLine, opts Options) (Totals, error) {
	if err := validatePercent("tax rate", opts.TaxRatePercent); err != nil {
		return Totals{}, err
	}
	if err := validatePercent("discount", opts.DiscountPercent); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	taxAmount := decimal.Zero
	if opts.TaxEnabled {
		taxAmount = subtotal.Mul(opts.TaxRatePercent).Div(hundred)
	}

	discountAmount := subtotal.Mul(opts.DiscountPercent).Div(hundred)
	if ceiling := subtotal.Add(taxAmount); discountAmount.GreaterThan(ceiling) {
		discountAmount = ceiling
	}

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          subtotal.Add(taxAmount).Sub(discountAmount),
	}, nil
}

// Tender is the outcome of validating cash received against a total.
type Tender struct {
	Accepted bool
	Change   decimal.Decimal
}

// ValidateCashTender accepts the tender iff the amount received covers the
// total, comparing exact decimals. Rejection has no side effect.
func ValidateCashTender(total, amountReceived decimal.Decimal) (Tender, error) {
	if amountReceived.LessThan(total) {
		return Tender{}, pkgerrors.New(pkgerrors.CodeInsufficientTender,
			fmt.Sprintf("received %s against a total of %s", amountReceived.Round(2), total.Round(2))).
			WithDetails(map[string]any{
				"total":    total.Round(2),
				"received": amountReceived.Round(2),
			})
	}
	return Tender{
		Accepted: true,
		Change:   amountReceived.Sub(total).Round(2),
	}, nil
}

func validatePercent(name string, value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s %s is outside 0..100", name, value))
	}
	return nil
}
