package ticket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tapin/internal/pricing"

	"github.com/gin-gonic/gin"
)

type staticPricing pricing.Config

func (p staticPricing) Pricing(ctx context.Context) (pricing.Config, error) {
	return pricing.Config(p), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _, _ := newTestService(t)
	h := NewHandler(svc, staticPricing{TaxRatePercent: 14.8, TipPresets: [3]int{15, 18, 20}})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userName", "Ana")
		c.Next()
	})
	r.GET("/tables/:id", h.Get)
	r.POST("/tables/:id/items", h.AddItem)
	r.DELETE("/tables/:id/items", h.DeleteItem)
	r.POST("/tables/:id/fire", h.Fire)
	r.GET("/tables/:id/totals", h.Totals)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerBurgerTotals(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/tables/T1/items", `{"name":"Burger","quantity":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/tables/T1/totals?tip=18%25", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var b pricing.Breakdown
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Subtotal != 2900 || b.Tax != 429 || b.Total != 3329 || b.Tip != 599 || b.FinalTotal != 3928 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestHandlerErrorsMapToStatus(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodPost, "/tables/T1/items", `{"name":"Pizza"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/tables/T1/items", `{"name":"Ribeye Steak"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/tables/T1/items", `not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/tables/T1/fire?course=x", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandlerFireAndDelete(t *testing.T) {
	r := newTestRouter(t)

	do(r, http.MethodPost, "/tables/T1/items", `{"name":"Wings","quantity":2}`)

	w := do(r, http.MethodPost, "/tables/T1/fire", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res FireResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.OrderID == "" || len(res.Groups) != 1 || res.Groups[0].Quantity != 2 {
		t.Fatalf("unexpected fire result %+v", res)
	}

	w = do(r, http.MethodDelete, "/tables/T1/items",
		`{"ref":{"name":"Wings","notes":"","course":1,"is_fired":true}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var v ticketView
	json.Unmarshal(w.Body.Bytes(), &v)
	if len(v.Items) != 1 || v.Items[0].Quantity != 1 {
		t.Fatalf("expected one wing left, got %+v", v.Items)
	}
}
