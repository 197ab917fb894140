package money

import (
	"github.com/shopspring/decimal"
)

// Cents is an amount of money in integer cents.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromFloat converts a dollar amount (as stored by the legacy
// document layout) into cents, rounding half away from zero.
func FromFloat(dollars float64) Cents {
	return Cents(decimal.NewFromFloat(dollars).Mul(hundred).Round(0).IntPart())
}

// Float returns the amount in dollars.
func (c Cents) Float() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// Decimal returns the amount in dollars as a decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount as "$12.34".
func (c Cents) String() string {
	if c < 0 {
		return "-$" + (-c).Decimal().StringFixed(2)
	}
	return "$" + c.Decimal().StringFixed(2)
}

// Percent returns c × pct / 100 rounded to whole cents.
func (c Cents) Percent(pct decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(pct).Div(hundred).Round(0).IntPart())
}

// Split divides c into n parts that sum to c exactly.
// The leftover cents go to the first parts.
func Split(c Cents, n int) []Cents {
	if n <= 0 {
		return nil
	}

	base := c / Cents(n)
	remainder := int(c - base*Cents(n))

	parts := make([]Cents, n)
	for i := range parts {
		parts[i] = base
		if i < remainder {
			parts[i]++
		}
	}
	return parts
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
