package pricing

import (
	"strconv"
	"strings"

	"tapin/internal/core"
	"tapin/internal/money"

	"github.com/shopspring/decimal"
)

type TipKind string

const (
	TipNone    TipKind = "none"
	TipPreset1 TipKind = "preset1"
	TipPreset2 TipKind = "preset2"
	TipPreset3 TipKind = "preset3"
	TipCustom  TipKind = "custom"
)

// TipMode selects how the tip is computed. Amount is only read for
// TipCustom.
type TipMode struct {
	Kind   TipKind     `json:"kind"`
	Amount money.Cents `json:"amount,omitempty"`
}

func NoTip() TipMode { return TipMode{Kind: TipNone} }

func CustomTip(amount money.Cents) TipMode {
	return TipMode{Kind: TipCustom, Amount: amount}
}

// Tip is computed on the tax-inclusive total.
func Tip(total money.Cents, mode TipMode, cfg Config) (money.Cents, error) {
	switch mode.Kind {
	case TipNone, "":
		return 0, nil
	case TipPreset1:
		return total.Percent(decimal.NewFromInt(int64(cfg.TipPresets[0]))), nil
	case TipPreset2:
		return total.Percent(decimal.NewFromInt(int64(cfg.TipPresets[1]))), nil
	case TipPreset3:
		return total.Percent(decimal.NewFromInt(int64(cfg.TipPresets[2]))), nil
	case TipCustom:
		if mode.Amount < 0 {
			return 0, core.Validation("tip cannot be negative")
		}
		return mode.Amount, nil
	default:
		return 0, core.Validation("unknown tip mode %q", mode.Kind)
	}
}

// ParseTipMode accepts "none", "preset1".."preset3", a preset label
// such as "18%" (matched against cfg), or "custom" with a dollar amount.
func ParseTipMode(kind, amount string, cfg Config) (TipMode, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	switch kind {
	case "", "none", "no tip":
		return NoTip(), nil
	case string(TipPreset1), string(TipPreset2), string(TipPreset3):
		return TipMode{Kind: TipKind(kind)}, nil
	case string(TipCustom):
		dollars, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(amount), "$"))
		if err != nil {
			return TipMode{}, core.Validation("invalid custom tip %q", amount)
		}
		cents := money.Cents(dollars.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		if cents < 0 {
			return TipMode{}, core.Validation("tip cannot be negative")
		}
		return CustomTip(cents), nil
	}

	if pct, err := strconv.Atoi(strings.TrimSuffix(kind, "%")); err == nil {
		for i, preset := range cfg.TipPresets {
			if preset == pct {
				return TipMode{Kind: TipKind("preset" + strconv.Itoa(i+1))}, nil
			}
		}
	}

	return TipMode{}, core.Validation("unknown tip mode %q", kind)
}
