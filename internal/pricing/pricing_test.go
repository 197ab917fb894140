package pricing

import (
	"testing"

	"tapin/internal/core"
	"tapin/internal/money"
)

type line struct {
	price money.Cents
	qty   int
}

func (l line) LineTotal() money.Cents { return l.price * money.Cents(l.qty) }

var defaults = Config{TaxRatePercent: 14.8, TipPresets: [3]int{15, 18, 20}}

func TestBurgerScenario(t *testing.T) {
	items := []line{{price: 1450, qty: 2}}

	b, err := Compute(items, defaults, TipMode{Kind: TipPreset2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Subtotal != 2900 {
		t.Fatalf("expected subtotal 2900, got %d", b.Subtotal)
	}
	if b.Tax != 429 {
		t.Fatalf("expected tax 429, got %d", b.Tax)
	}
	if b.Total != 3329 {
		t.Fatalf("expected total 3329, got %d", b.Total)
	}
	if b.Tip != 599 {
		t.Fatalf("expected tip 599, got %d", b.Tip)
	}
	if b.FinalTotal.String() != "$39.28" {
		t.Fatalf("expected $39.28, got %s", b.FinalTotal)
	}
}

func TestPricingIdentities(t *testing.T) {
	modes := []TipMode{
		NoTip(),
		{Kind: TipPreset1},
		{Kind: TipPreset2},
		{Kind: TipPreset3},
		CustomTip(250),
	}

	for _, sub := range []money.Cents{0, 1, 99, 1234, 2900, 987654} {
		for _, rate := range []float64{0, 7.25, 14.8, 20} {
			tax := Tax(sub, rate)
			if tax+sub != Total(sub, tax) {
				t.Fatalf("tax + subtotal != total for %d @ %v", sub, rate)
			}

			cfg := Config{TaxRatePercent: rate, TipPresets: defaults.TipPresets}
			for _, mode := range modes {
				b, err := ComputeFromSubtotal(sub, cfg, mode)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.FinalTotal != b.Total+b.Tip {
					t.Fatalf("final total mismatch for %+v", b)
				}
			}
		}
	}
}

func TestTipOnTaxInclusiveTotal(t *testing.T) {
	// 20% of 1148 (1000 + 14.8% tax), not of 1000
	b, _ := ComputeFromSubtotal(1000, defaults, TipMode{Kind: TipPreset3})
	if b.Tip != 230 {
		t.Fatalf("expected tip 230, got %d", b.Tip)
	}
}

func TestSubtotalSumsRawLines(t *testing.T) {
	items := []line{{price: 500, qty: 3}, {price: 500, qty: 1}, {price: 275, qty: 2}}
	if got := Subtotal(items); got != 2550 {
		t.Fatalf("expected 2550, got %d", got)
	}
}

func TestNegativeCustomTip(t *testing.T) {
	_, err := Tip(1000, CustomTip(-1), defaults)
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseTipMode(t *testing.T) {
	cases := []struct {
		kind, amount string
		want         TipMode
	}{
		{"", "", NoTip()},
		{"No tip", "", NoTip()},
		{"preset2", "", TipMode{Kind: TipPreset2}},
		{"20%", "", TipMode{Kind: TipPreset3}},
		{"custom", "$4.50", CustomTip(450)},
	}

	for _, tc := range cases {
		got, err := ParseTipMode(tc.kind, tc.amount, defaults)
		if err != nil {
			t.Fatalf("ParseTipMode(%q) error: %v", tc.kind, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTipMode(%q) = %+v, want %+v", tc.kind, got, tc.want)
		}
	}

	if _, err := ParseTipMode("25%", "", defaults); !core.IsValidation(err) {
		t.Fatalf("expected validation error for unknown preset")
	}
	if _, err := ParseTipMode("custom", "abc", defaults); !core.IsValidation(err) {
		t.Fatalf("expected validation error for bad amount")
	}
}

func TestChangeDue(t *testing.T) {
	change, err := ChangeDue(4000, 3928)
	if err != nil || change != 72 {
		t.Fatalf("expected 72 change, got %d (%v)", change, err)
	}
	if _, err := ChangeDue(3000, 3928); !core.IsValidation(err) {
		t.Fatalf("expected validation error for short tender")
	}
}
