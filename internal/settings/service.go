package settings

import (
	"context"
	"strings"

	"tapin/internal/pricing"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the saved settings, or the defaults when none are saved.
// Zero tip presets and an empty message fall back field by field.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	saved, found, err := s.store.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if !found {
		return Defaults(), nil
	}

	d := Defaults()
	if saved.Tip1 == 0 && saved.Tip2 == 0 && saved.Tip3 == 0 {
		saved.Tip1, saved.Tip2, saved.Tip3 = d.Tip1, d.Tip2, d.Tip3
	}
	if strings.TrimSpace(saved.ReceiptMessage) == "" {
		saved.ReceiptMessage = d.ReceiptMessage
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, v Settings) (Settings, error) {
	v.ReceiptMessage = strings.TrimSpace(v.ReceiptMessage)
	if err := v.Validate(); err != nil {
		return Settings{}, err
	}
	if err := s.store.Put(ctx, v); err != nil {
		return Settings{}, err
	}
	return s.Get(ctx)
}

// Pricing is the tax and tip configuration for checkout.
func (s *Service) Pricing(ctx context.Context) (pricing.Config, error) {
	v, err := s.Get(ctx)
	if err != nil {
		return pricing.Config{}, err
	}
	return v.Pricing(), nil
}
