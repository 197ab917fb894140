package settings

import (
	"strings"

	"tapin/internal/core"
	"tapin/internal/pricing"
)

// Settings is the single global configuration row.
type Settings struct {
	TaxRatePercent float64 `json:"tax_rate"`
	Tip1           int     `json:"tip1"`
	Tip2           int     `json:"tip2"`
	Tip3           int     `json:"tip3"`
	ReceiptMessage string  `json:"receipt_message"`
}

func Defaults() Settings {
	return Settings{
		TaxRatePercent: 14.8,
		Tip1:           15,
		Tip2:           18,
		Tip3:           20,
		ReceiptMessage: "Thank you!",
	}
}

func (s Settings) Pricing() pricing.Config {
	return pricing.Config{
		TaxRatePercent: s.TaxRatePercent,
		TipPresets:     [3]int{s.Tip1, s.Tip2, s.Tip3},
	}
}

func (s Settings) Validate() error {
	if s.TaxRatePercent < 0 || s.TaxRatePercent > 100 {
		return core.Validation("tax rate must be between 0 and 100")
	}
	for _, tip := range []int{s.Tip1, s.Tip2, s.Tip3} {
		if tip < 0 || tip > 100 {
			return core.Validation("tip presets must be between 0 and 100")
		}
	}
	if s.Tip1 == 0 && s.Tip2 == 0 && s.Tip3 == 0 {
		// All-zero presets read back as the defaults.
		return core.Validation("at least one tip preset must be set")
	}
	if len(strings.TrimSpace(s.ReceiptMessage)) > 200 {
		return core.Validation("receipt message is too long")
	}
	return nil
}
