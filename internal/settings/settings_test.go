package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tapin/internal/core"

	"github.com/gin-gonic/gin"
)

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc := NewService(NewInMemoryStore())

	s, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}

	cfg, _ := svc.Pricing(context.Background())
	if cfg.TaxRatePercent != 14.8 || cfg.TipPresets != [3]int{15, 18, 20} {
		t.Fatalf("unexpected pricing config %+v", cfg)
	}
}

func TestUpdateValidatesAndFillsGaps(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := context.Background()

	if _, err := svc.Update(ctx, Settings{TaxRatePercent: 120}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, Settings{TaxRatePercent: 8, Tip1: -5}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	s, err := svc.Update(ctx, Settings{TaxRatePercent: 8.25, Tip1: 10, Tip2: 0, Tip3: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TaxRatePercent != 8.25 || s.Tip2 != 0 || s.ReceiptMessage != "Thank you!" {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestUpdateRejectsAllZeroTipPresets(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := context.Background()

	if _, err := svc.Update(ctx, Settings{TaxRatePercent: 8.25}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	s, _ := svc.Get(ctx)
	if s != Defaults() {
		t.Fatalf("rejected update changed settings: %+v", s)
	}
}

func TestHandlerUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(NewInMemoryStore()))

	r := gin.New()
	r.PUT("/admin/settings", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/admin/settings",
		strings.NewReader(`{"tax_rate":10,"tip1":10,"tip2":15,"tip3":25,"receipt_message":"See you soon"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "See you soon") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
