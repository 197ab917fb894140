package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tapin/internal/core"
	"tapin/internal/logger"
	"tapin/internal/pricing"
	"tapin/internal/settings"
	"tapin/internal/ticket"

	"github.com/gin-gonic/gin"
)

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) PutJSON(ctx context.Context, key string, v any) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fixture struct {
	svc      *Service
	receipts *InMemoryStore
	tickets  *ticket.InMemoryStore
	archive  *fakeArchive
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		receipts: NewInMemoryStore(),
		tickets:  ticket.NewInMemoryStore(),
		archive:  &fakeArchive{},
	}
	f.svc = NewService(f.receipts, f.tickets, settings.NewService(settings.NewInMemoryStore()), f.archive, logger.Nop())
	f.svc.clearBackoff = []time.Duration{0, 0, 0}
	return f
}

func seatBurgers(t *testing.T, store *ticket.InMemoryStore, tableID string) {
	t.Helper()
	err := store.Put(context.Background(), ticket.Ticket{
		TableID:    tableID,
		GuestCount: 2,
		Items: []ticket.LineItem{
			{Name: "Burger", UnitPrice: 1450, Quantity: 2, Course: 2, IsFired: true},
		},
	})
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
}

func TestCheckoutBurgerScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatBurgers(t, f.tickets, "T1")

	res, err := f.svc.Checkout(ctx, CheckoutRequest{
		TableID:    "T1",
		ServerName: "Ana",
		Method:     MethodCreditCard,
		Tip:        pricing.TipMode{Kind: pricing.TipPreset2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := res.Receipt
	if r.Subtotal != 2900 || r.Tax != 429 || r.Total != 3329 || r.Tip != 599 || r.Charged() != 3928 {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if res.Message != "Thank you!" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	tk, _ := f.tickets.Get(ctx, "T1")
	if tk.Occupied() || tk.GuestCount != 0 {
		t.Fatalf("ticket not cleared: %+v", tk)
	}
	if len(f.archive.keys) != 1 || !strings.HasSuffix(f.archive.keys[0], r.ID+".json") {
		t.Fatalf("receipt not archived: %v", f.archive.keys)
	}
}

func TestCheckoutCashChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatBurgers(t, f.tickets, "T1")

	if _, err := f.svc.Checkout(ctx, CheckoutRequest{
		TableID: "T1", Method: MethodCash, Tip: pricing.NoTip(), Tendered: 3000,
	}); !core.IsValidation(err) {
		t.Fatalf("expected validation error for short tender, got %v", err)
	}

	res, err := f.svc.Checkout(ctx, CheckoutRequest{
		TableID: "T1", Method: MethodCash, Tip: pricing.NoTip(), Tendered: 4000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChangeDue != 671 {
		t.Fatalf("expected $6.71 change, got %s", res.ChangeDue)
	}
}

func TestCheckoutRejectsEmptyTableAndUnknownMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Checkout(ctx, CheckoutRequest{TableID: "T9", Method: MethodCash}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	seatBurgers(t, f.tickets, "T1")
	if _, err := f.svc.Checkout(ctx, CheckoutRequest{TableID: "T1", Method: "Bitcoin"}); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSettleReceiptFailureLeavesTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatBurgers(t, f.tickets, "T1")
	f.receipts.FailAppends(errors.New("quota exceeded"))

	_, err := f.svc.Settle(ctx, Receipt{TableID: "T1", Subtotal: 2900, Tax: 429, Total: 3329, PaymentMethod: MethodCash})
	if !core.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	tk, _ := f.tickets.Get(ctx, "T1")
	if !tk.Occupied() {
		t.Fatalf("ticket was cleared without a receipt")
	}
}

func TestSettleRetriesClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatBurgers(t, f.tickets, "T1")
	f.tickets.FailPuts(errors.New("unavailable"), 2)

	r, err := f.svc.Settle(ctx, Receipt{TableID: "T1", Total: 3329, PaymentMethod: MethodCreditCard})
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if r.ID == "" {
		t.Fatalf("receipt missing id")
	}

	tk, _ := f.tickets.Get(ctx, "T1")
	if tk.Occupied() {
		t.Fatalf("ticket not cleared after retry")
	}
}

func TestSettleClearGivesUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seatBurgers(t, f.tickets, "T1")
	f.tickets.FailPuts(errors.New("unavailable"), 0)

	r, err := f.svc.Settle(ctx, Receipt{TableID: "T1", Total: 3329, PaymentMethod: MethodCreditCard})
	if !core.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if r.ID == "" {
		t.Fatalf("the recorded receipt should still be returned")
	}

	list, _ := f.svc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected the receipt to be kept, got %d", len(list))
	}
}

func TestArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.archive.err = errors.New("r2 down")

	if _, err := f.svc.Record(context.Background(), Receipt{TableID: "T1", Total: 100, PaymentMethod: MethodCash}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Record(ctx, Receipt{TableID: "T1", Subtotal: 1000, Tax: 148, Total: 1148, Tip: 200, PaymentMethod: MethodCash})
	f.svc.Record(ctx, Receipt{TableID: "T2", Subtotal: 2000, Tax: 296, Total: 2296, Tip: 0, PaymentMethod: MethodSplitCard})

	s, err := f.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count != 2 || s.Tips != 200 || s.Gross != 3644 || s.ByMethod[MethodCash] != 1348 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestArchiveKey(t *testing.T) {
	r := Receipt{ID: "abc", Timestamp: time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)}
	if got := ArchiveKey(r); got != "receipts/2024/05/01/abc.json" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestHandlerCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	seatBurgers(t, f.tickets, "T1")
	h := NewHandler(f.svc)

	r := gin.New()
	r.POST("/tables/:id/checkout", h.Checkout)

	req := httptest.NewRequest(http.MethodPost, "/tables/T1/checkout",
		strings.NewReader(`{"method":"Cash","tip":"custom","tip_amount":"5.00","tendered":"40"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res CheckoutResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.Receipt.Tip != 500 || res.ChangeDue != 171 {
		t.Fatalf("unexpected result %+v", res)
	}
}
