package pricing

import (
	"tapin/internal/core"
	"tapin/internal/money"

	"github.com/shopspring/decimal"
)

// Config is the tax rate and the three tip presets offered at checkout.
type Config struct {
	TaxRatePercent float64
	TipPresets     [3]int
}

// Line is anything that contributes unit price × quantity to a bill.
type Line interface {
	LineTotal() money.Cents
}

// Breakdown is the full bill for one payment.
type Breakdown struct {
	Subtotal   money.Cents `json:"subtotal"`
	Tax        money.Cents `json:"tax"`
	Total      money.Cents `json:"total"`
	Tip        money.Cents `json:"tip"`
	FinalTotal money.Cents `json:"final_total"`
}

// Subtotal sums raw line items. Grouped display rows must never be
// passed here.
func Subtotal[L Line](items []L) money.Cents {
	var sum money.Cents
	for _, item := range items {
		sum += item.LineTotal()
	}
	return sum
}

func Tax(subtotal money.Cents, ratePercent float64) money.Cents {
	return subtotal.Percent(decimal.NewFromFloat(ratePercent))
}

func Total(subtotal, tax money.Cents) money.Cents {
	return subtotal + tax
}

// Compute prices items and applies the tip to the tax-inclusive total.
func Compute[L Line](items []L, cfg Config, mode TipMode) (Breakdown, error) {
	sub := Subtotal(items)
	return ComputeFromSubtotal(sub, cfg, mode)
}

func ComputeFromSubtotal(sub money.Cents, cfg Config, mode TipMode) (Breakdown, error) {
	tax := Tax(sub, cfg.TaxRatePercent)
	total := Total(sub, tax)

	tip, err := Tip(total, mode, cfg)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		Subtotal:   sub,
		Tax:        tax,
		Total:      total,
		Tip:        tip,
		FinalTotal: total + tip,
	}, nil
}

// ChangeDue is what a cash payer gets back. Tendering less than due is
// a validation error.
func ChangeDue(tendered, due money.Cents) (money.Cents, error) {
	if tendered < due {
		return 0, core.Validation("tendered %s is less than %s due", tendered, due)
	}
	return tendered - due, nil
}
